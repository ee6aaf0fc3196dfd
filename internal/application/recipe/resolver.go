package recipe

import (
	"context"
	"fmt"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"go.uber.org/zap"
)

// Resolver maps natural-key names to reference ids, creating rows on first use.
// It always works on the caller's transaction so the lookup, the insert and
// everything that links to the id commit or roll back together.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a new get-or-create resolver
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger.Named("reference-resolver")}
}

// Resolve returns the id of the row named ref.Name, inserting it when absent.
// created reports whether this call inserted the row.
func (r *Resolver) Resolve(ctx context.Context, tx outbound.CatalogTx, ref recipe.Reference) (id int64, created bool, err error) {
	id, found, err := tx.FindReferenceID(ctx, ref.Kind, ref.Name)
	if err != nil {
		return 0, false, fmt.Errorf("look up %s %q: %w", ref.Kind, ref.Name, err)
	}
	if found {
		return id, false, nil
	}

	id, created, err = tx.InsertReference(ctx, ref)
	if err != nil {
		return 0, false, fmt.Errorf("insert %s %q: %w", ref.Kind, ref.Name, err)
	}
	if created {
		r.logger.Debug("Reference created",
			zap.Stringer("kind", ref.Kind),
			zap.String("name", ref.Name),
			zap.Int64("id", id),
		)
		return id, true, nil
	}

	// Another transaction inserted the same name between lookup and insert.
	id, found, err = tx.FindReferenceID(ctx, ref.Kind, ref.Name)
	if err != nil {
		return 0, false, fmt.Errorf("look up %s %q: %w", ref.Kind, ref.Name, err)
	}
	if !found {
		r.logger.Warn("Reference insert lost a race and the winner is not visible",
			zap.Stringer("kind", ref.Kind),
			zap.String("name", ref.Name),
		)
		return 0, false, fmt.Errorf("%s %q: %w", ref.Kind, ref.Name, recipe.ErrReferenceConflict)
	}
	return id, false, nil
}

// ResolveName is Resolve for a bare name
func (r *Resolver) ResolveName(ctx context.Context, tx outbound.CatalogTx, kind recipe.ReferenceKind, name string) (int64, error) {
	ref, err := recipe.NewReference(kind, name)
	if err != nil {
		return 0, err
	}
	id, _, err := r.Resolve(ctx, tx, ref)
	return id, err
}
