package catalog

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/inchworm-units/inchworm/internal/dimensions"
	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/tracing"
)

// ApplyResult summarizes what Apply changed.
type ApplyResult struct {
	Inserted  int
	Replaced  int
	Displaced []string // keys whose previous definition was overridden
}

// Apply registers the catalog's entries: base dimensions first, then
// derived dimensions, each in file order. Entries marked override use the
// replace discipline; all others use insert-or-fail. An override base entry
// whose key is also one of the catalog's derived keys is applied last, so it
// shadows the derived entry instead of blocking it. Apply stops at the
// first error. Entries applied before the error stay registered.
func (c *Catalog) Apply(ctx context.Context, reg *dimensions.Registry) (ApplyResult, error) {
	_, span := otel.Tracer(tracing.TracerName).Start(ctx, tracing.SpanPrefixCatalog+"apply")
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrCatalogSource, c.Source),
		attribute.Int(tracing.AttrCatalogEntries, c.Len()),
	)

	var res ApplyResult
	fail := func(err error) (ApplyResult, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatCatalog, "catalog apply failed", err, "source", c.Source)
		return res, fmt.Errorf("apply %s: %w", c.Source, err)
	}

	derivedKeys := make(map[string]bool, len(c.Derived))
	for _, e := range c.Derived {
		derivedKeys[e.Key] = true
	}
	replaceBase := func(e BaseEntry) {
		if _, replaced := reg.ReplaceBaseDimension(e.Key, e.Def); replaced {
			res.Replaced++
			res.Displaced = append(res.Displaced, e.Key)
		} else {
			res.Inserted++
		}
	}

	var shadowing []BaseEntry
	for i, e := range c.Base {
		if e.Override {
			if derivedKeys[e.Key] {
				shadowing = append(shadowing, e)
				continue
			}
			replaceBase(e)
			continue
		}
		if err := reg.TryInsertNewBaseDimension(e.Key, e.Def); err != nil {
			return fail(fmt.Errorf("base[%d]: %w", i, err))
		}
		res.Inserted++
	}

	for i, e := range c.Derived {
		if e.Override {
			_, replaced, err := reg.ReplaceDerivedDimension(e.Key, e.Def)
			if err != nil {
				return fail(fmt.Errorf("derived[%d]: %w", i, err))
			}
			if replaced {
				res.Replaced++
				res.Displaced = append(res.Displaced, e.Key)
			} else {
				res.Inserted++
			}
			continue
		}
		if err := reg.TryInsertNewDerivedDimension(e.Key, e.Def); err != nil {
			return fail(fmt.Errorf("derived[%d]: %w", i, err))
		}
		res.Inserted++
	}
	for _, e := range shadowing {
		replaceBase(e)
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrCatalogInserted, res.Inserted),
		attribute.Int(tracing.AttrCatalogReplaced, res.Replaced),
	)
	log.Info(log.CatCatalog, "catalog applied", "source", c.Source, "inserted", res.Inserted, "replaced", res.Replaced)
	return res, nil
}

// Check applies the catalog to a scratch registry seeded from base and
// reports whether it would apply cleanly. base may be nil.
func (c *Catalog) Check(ctx context.Context, base *Catalog) error {
	reg := dimensions.NewRegistry()
	defer reg.Close()
	if base != nil {
		if _, err := base.Apply(ctx, reg); err != nil {
			return err
		}
	}
	_, err := c.Apply(ctx, reg)
	return err
}
