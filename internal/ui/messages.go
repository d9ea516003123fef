package ui

import (
	"humblesync/internal/downloads"
	"humblesync/internal/humblecli"
	"humblesync/internal/library"
)

// bundlesLoadedMsg carries the sorted bundle list after a refresh.
type bundlesLoadedMsg struct {
	bundles []humblecli.Bundle
}

// bundlesErrMsg reports a failed bundle list fetch.
type bundlesErrMsg struct {
	err error
}

// contentsLoadedMsg carries one bundle's items joined with completion state.
type contentsLoadedMsg struct {
	contents *library.BundleContents
}

// contentsErrMsg reports a failed bundle details fetch.
type contentsErrMsg struct {
	bundleKey string
	err       error
}

// downloadChangedMsg nudges the model after any download state transition.
type downloadChangedMsg struct{}

// noticeMsg is a transient message for the notice area. Download workers
// publish these through the Bridge.
type noticeMsg struct {
	text     string
	severity downloads.Severity
}

// noticeExpiredMsg removes one notice once its display window ends.
type noticeExpiredMsg struct {
	id int
}

// removeItemMsg drops a fully completed item from the detail view. Items are
// matched by identity so a removal scheduled for a previous visit to the
// bundle cannot touch freshly loaded state.
type removeItemMsg struct {
	item *downloads.ItemState
}
