package tui

import (
	"github.com/dyike/clipmind/pkg/clipmind"
	"github.com/dyike/clipmind/pkg/pipeline"
	"github.com/dyike/clipmind/pkg/store"
)

// ItemsLoadedMsg indicates the item list has been (re)loaded
type ItemsLoadedMsg struct {
	Items []store.Item
}

// ItemSelectedMsg indicates an item was selected for detail view
type ItemSelectedMsg struct {
	Item *store.Item
}

// ItemDeletedMsg indicates an item was deleted
type ItemDeletedMsg struct {
	ItemID string
}

// SearchResultsMsg carries semantic search results
type SearchResultsMsg struct {
	Query   string
	Results []clipmind.SearchResult
}

// PipelineEventMsg wraps a live event from the capture pipeline
type PipelineEventMsg struct {
	Event pipeline.Event
}

// ErrorMsg represents an error
type ErrorMsg struct {
	Err error
}
