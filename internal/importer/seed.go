package importer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medref/medref/internal/platform/audit"
)

type relationshipBuilder interface {
	RegenerateRelationships(ctx context.Context) (int, error)
}

// Seeder imports every built-in dataset and rebuilds the derived
// medication relationship edges afterwards.
type Seeder struct {
	stores        Stores
	relationships relationshipBuilder
	log           zerolog.Logger
}

func NewSeeder(stores Stores, relationships relationshipBuilder, log zerolog.Logger) *Seeder {
	return &Seeder{stores: stores, relationships: relationships, log: log}
}

// Run imports all datasets. History tracking stays off during the seed
// unless keepHistory is set, so a fresh database is not flooded with
// import-time audit rows. Record failures are collected, not fatal; the
// returned error reports only how many records were skipped.
func (s *Seeder) Run(ctx context.Context, keepHistory bool) error {
	if !keepHistory {
		ctx = audit.WithTracking(ctx, false)
	}

	var failed int
	for _, ds := range Datasets() {
		session, err := NewSession(ctx, s.stores, ds.Specialty, ds.SpecialtyDescription, s.log)
		if err != nil {
			return err
		}
		s.importDataset(ctx, session, ds)
		failed += len(session.Errors())
	}

	edges, err := s.relationships.RegenerateRelationships(ctx)
	if err != nil {
		return fmt.Errorf("rebuild relationships: %w", err)
	}
	s.log.Info().Int("edges", edges).Msg("rebuilt medication relationships")

	if failed > 0 {
		return fmt.Errorf("seed finished with %d skipped records", failed)
	}
	return nil
}

func (s *Seeder) importDataset(ctx context.Context, session *Session, ds Dataset) {
	for _, rec := range ds.Conditions {
		session.AddCondition(ctx, rec)
	}
	for _, rec := range ds.Medications {
		session.AddMedication(ctx, rec)
	}
	for _, rec := range ds.References {
		session.AddReference(ctx, rec)
	}
	for _, rec := range ds.Guidelines {
		session.AddGuideline(ctx, rec)
	}
	for _, link := range ds.Links {
		session.LinkMedicationToCondition(ctx, link.Medication, link.Condition)
	}
	s.log.Info().
		Str("specialty", ds.Specialty).
		Int("conditions", len(ds.Conditions)).
		Int("medications", len(ds.Medications)).
		Int("errors", len(session.Errors())).
		Msg("dataset imported")
}
