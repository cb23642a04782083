package reconcile

import (
	"context"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/repositories"
)

// Cluster returns the cluster containing contact id, or [shared.ErrContactNotFound].
func (e *Engine) Cluster(ctx context.Context, id int64) (*models.Cluster, error) {
	var cluster *models.Cluster
	err := e.inTx(ctx, func(repo *repositories.ContactRepository) error {
		contact, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		members, err := repo.FindCluster(ctx, []int64{contact.PrimaryID()})
		if err != nil {
			return err
		}

		cluster, err = build(members)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cluster, nil
}

// Clusters returns one page of clusters ordered by their primary's creation. A non-positive limit
// returns every cluster.
func (e *Engine) Clusters(ctx context.Context, limit, offset int) ([]models.Cluster, error) {
	var clusters []models.Cluster
	err := e.inTx(ctx, func(repo *repositories.ContactRepository) error {
		primaries, err := repo.ListPrimaries(ctx, limit, offset)
		if err != nil {
			return err
		}

		roots := make([]int64, len(primaries))
		for i, p := range primaries {
			roots[i] = p.ID
		}

		members, err := repo.FindCluster(ctx, roots)
		if err != nil {
			return err
		}

		byRoot := make(map[int64][]models.Contact, len(roots))
		for _, c := range members {
			byRoot[c.PrimaryID()] = append(byRoot[c.PrimaryID()], c)
		}

		clusters = make([]models.Cluster, 0, len(roots))
		for _, root := range roots {
			cluster, err := build(byRoot[root])
			if err != nil {
				return err
			}
			clusters = append(clusters, *cluster)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clusters, nil
}

// Count returns the number of clusters.
func (e *Engine) Count(ctx context.Context) (int, error) {
	return repositories.NewContactRepository(e.db).CountPrimaries(ctx)
}

func build(members []models.Contact) (*models.Cluster, error) {
	view, err := assemble(members)
	if err != nil {
		return nil, err
	}
	return &models.Cluster{View: *view, Contacts: members}, nil
}
