// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI moves through four views:
//  1. [InputView] : enter a Steam ID or profile URL
//  2. [LookupView] : spinner and the current pipeline phase
//  3. [ResultView] : the stats card, or the localized error
//  4. [HistoryView] : lookups from this session, selectable to run again
//
// The lookup runs in a goroutine; progress updates flow through a channel and the outcome is delivered
// once that channel closes, so the model is only mutated from Update.
package ui
