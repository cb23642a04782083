// Package ui implements an interactive terminal browser for identity clusters using bubbletea's Elm architecture.
//
// The TUI has four views:
//  1. [ClusterListView] : Browse primary contacts and their cluster sizes
//  2. [ClusterDetailView] : Inspect every contact row of one cluster
//  3. [IdentifyView] : Enter an email and phone number to reconcile
//  4. [IdentifyResultView] : Show the consolidated view returned for that identity
//
// The (view) [Model] implements the standard Init/Update/View pattern, receiving results of
// [Source] calls as [Msg] values produced by commands.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, i, tab, r, q) with contextual help from charmbracelet/bubbles/help.
package ui
