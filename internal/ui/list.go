package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/recon/internal/models"
)

var _ list.Item = clusterItem{}

// clusterItem wraps [models.Cluster] to implement [list.Item].
type clusterItem struct {
	cluster models.Cluster
}

func (i clusterItem) FilterValue() string {
	v := i.cluster.View
	return strings.Join(append(append([]string{}, v.Emails...), v.PhoneNumbers...), " ")
}

func (i clusterItem) Title() string {
	v := i.cluster.View
	if len(v.Emails) > 0 {
		return fmt.Sprintf("#%d %s", v.PrimaryContactID, v.Emails[0])
	}
	if len(v.PhoneNumbers) > 0 {
		return fmt.Sprintf("#%d %s", v.PrimaryContactID, v.PhoneNumbers[0])
	}
	return fmt.Sprintf("#%d", v.PrimaryContactID)
}

func (i clusterItem) Description() string {
	v := i.cluster.View
	return fmt.Sprintf("%d contacts • %d emails • %d phones", len(v.SecondaryContactIDs)+1, len(v.Emails), len(v.PhoneNumbers))
}
