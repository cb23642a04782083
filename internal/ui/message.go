package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/recon/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgClustersFetched MsgKind = iota
	MsgIdentified
)

type clustersFetched struct {
	clusters []models.Cluster
	err      error
}

type identified struct {
	view *models.ClusterView
	err  error
}

// clustersFetchedMsg is the constructor for [MsgClustersFetched]
func clustersFetchedMsg(clusters []models.Cluster, err error) Msg {
	return Msg{kind: MsgClustersFetched, data: clustersFetched{clusters, err}}
}

// identifiedMsg is the constructor for [MsgIdentified]
func identifiedMsg(view *models.ClusterView, err error) Msg {
	return Msg{kind: MsgIdentified, data: identified{view, err}}
}
