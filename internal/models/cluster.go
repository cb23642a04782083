package models

// ClusterView is the public, deduplicated view of one identity cluster.
type ClusterView struct {
	PrimaryContactID    int64    `json:"primaryContactId"`
	Emails              []string `json:"emails"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	SecondaryContactIDs []int64  `json:"secondaryContactIds"`
}

// IdentifyResponse wraps a [ClusterView] the way the /identify endpoint returns it.
type IdentifyResponse struct {
	Contact ClusterView `json:"contact"`
}

// Cluster pairs a [ClusterView] with the member rows it was built from, ordered by creation.
type Cluster struct {
	View     ClusterView `json:"contact"`
	Contacts []Contact   `json:"contacts"`
}

// Primary returns the primary member, or false if none is present.
func (c *Cluster) Primary() (Contact, bool) {
	for _, contact := range c.Contacts {
		if contact.IsPrimary() {
			return contact, true
		}
	}
	return Contact{}, false
}
