package humblecli

import "testing"

const detailsFixture = `The Complete Battletech Legends Bundle

  Purchased    : June 13, 2024
  Amount spent : $25.00
  Total size   : 1.21 GiB

  # | Sub-item                  | Formats    | Total size
----|---------------------------|------------|------------
  1 | Falcon Guard (Book Three) | MOBI, EPUB |   3.47 MiB
  2 | Blood Legacy (Book Two)   | PDF        |  12.10 MiB
  3 | Way of the Clans          | MOBI, EPUB, PDF | 8.90 MiB

Keys in this bundle:

  # | Key Name          | Redeemed
----|-------------------|----------
  1 | Shadowrun Returns | Yes
  2 | BATTLETECH        | No

Visit https://www.humblebundle.com/home/keys to redeem.
`

func TestParseBundleList(t *testing.T) {
	output := "abc123,The Complete Battletech Legends Bundle\nxyz789,Math, Science and Coding Bundle\n"
	bundles := parseBundleList(output)
	if len(bundles) != 2 {
		t.Fatalf("expected 2 bundles, got %d", len(bundles))
	}
	if bundles[0].Key != "abc123" || bundles[0].Name != "The Complete Battletech Legends Bundle" {
		t.Fatalf("unexpected first bundle: %+v", bundles[0])
	}
	if bundles[1].Name != "Math, Science and Coding Bundle" {
		t.Fatalf("bundle name with commas mangled: %q", bundles[1].Name)
	}
}

func TestParseBundleListSkipsMalformedLines(t *testing.T) {
	output := "no-comma-here\nabc123,Good Bundle\n,\n"
	bundles := parseBundleList(output)
	if len(bundles) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(bundles))
	}
	if bundles[0].Key != "abc123" {
		t.Fatalf("unexpected bundle: %+v", bundles[0])
	}
}

func TestParseBundleListEmpty(t *testing.T) {
	if bundles := parseBundleList(""); len(bundles) != 0 {
		t.Fatalf("expected no bundles, got %+v", bundles)
	}
}

func TestParseDetailsMetadata(t *testing.T) {
	details := ParseDetails(detailsFixture)
	if details.Name != "The Complete Battletech Legends Bundle" {
		t.Fatalf("unexpected bundle name %q", details.Name)
	}
	if details.Purchased != "June 13, 2024" {
		t.Fatalf("unexpected purchase date %q", details.Purchased)
	}
	if details.Amount != "$25.00" {
		t.Fatalf("unexpected amount %q", details.Amount)
	}
	if details.TotalSize != "1.21 GiB" {
		t.Fatalf("unexpected total size %q", details.TotalSize)
	}
}

func TestParseDetailsItems(t *testing.T) {
	details := ParseDetails(detailsFixture)
	if len(details.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(details.Items))
	}
	first := details.Items[0]
	if first.Number != 1 || first.Name != "Falcon Guard (Book Three)" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if len(first.Formats) != 2 || first.Formats[0] != "MOBI" || first.Formats[1] != "EPUB" {
		t.Fatalf("unexpected formats: %v", first.Formats)
	}
	if first.Size != "3.47 MiB" {
		t.Fatalf("unexpected size %q", first.Size)
	}
	third := details.Items[2]
	if len(third.Formats) != 3 || third.Formats[2] != "PDF" {
		t.Fatalf("unexpected formats on third item: %v", third.Formats)
	}
}

func TestParseDetailsKeys(t *testing.T) {
	details := ParseDetails(detailsFixture)
	if len(details.Keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(details.Keys))
	}
	if details.Keys[0].Name != "Shadowrun Returns" || !details.Keys[0].Redeemed {
		t.Fatalf("unexpected first key: %+v", details.Keys[0])
	}
	if details.Keys[1].Name != "BATTLETECH" || details.Keys[1].Redeemed {
		t.Fatalf("unexpected second key: %+v", details.Keys[1])
	}
}

func TestParseDetailsKeysOnlyBundle(t *testing.T) {
	output := `Game Keys Bundle

  Purchased    : May 1, 2024

Keys in this bundle:

  # | Key Name | Redeemed
----|----------|----------
  1 | Some Game | No
`
	details := ParseDetails(output)
	if len(details.Items) != 0 {
		t.Fatalf("expected no items, got %+v", details.Items)
	}
	if len(details.Keys) != 1 || details.Keys[0].Name != "Some Game" {
		t.Fatalf("unexpected keys: %+v", details.Keys)
	}
}

func TestParseDetailsStopsItemsAtSectionHeader(t *testing.T) {
	details := ParseDetails(detailsFixture)
	for _, item := range details.Items {
		if item.Name == "Shadowrun Returns" {
			t.Fatal("key row leaked into items table")
		}
	}
}

func TestParseDetailsEmpty(t *testing.T) {
	details := ParseDetails("")
	if details.Name != "" || len(details.Items) != 0 || len(details.Keys) != 0 {
		t.Fatalf("expected zero-value details, got %+v", details)
	}
}
