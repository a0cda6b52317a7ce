package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/multierr"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
	"github.com/wyomingwade/slapaman/internal/upstream"
)

// UpdateOptions select the target of an update.
type UpdateOptions struct {
	// Version is the target version string. Empty means the latest version of
	// the kind the instance is on now.
	Version string
	// Flavor switches the instance flavor. Empty keeps the current one.
	Flavor domain.Flavor
	Fabric upstream.FabricOptions
}

// Report is the outcome of UpdateAll.
type Report struct {
	Updated []string
	Current []string
	Failed  map[string]error
}

// Err combines the failures, ordered by instance name. It is nil when nothing failed.
func (r *Report) Err() error {
	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}

	slices.Sort(names)

	var err error
	for _, name := range names {
		err = multierr.Append(err, fmt.Errorf("%s: %w", name, r.Failed[name]))
	}

	return err
}

// Update replaces the server artifact of name and records the new version.
// It fails with ErrAlreadyCurrent before downloading anything when the
// instance is already at the target version and flavor.
func (s *Service) Update(ctx context.Context, name string, opts UpdateOptions) (*domain.Instance, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "update"), "name", name)

	inst, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	flavor := inst.Flavor
	if opts.Flavor != "" {
		flavor = opts.Flavor
	}

	if !flavor.Valid() {
		return nil, fmt.Errorf("%q: %w", flavor, domain.ErrUnknownFlavor)
	}

	current := inst.VersionSpec()

	requested := domain.NewVersionSpec(current.Kind, domain.Latest)
	if opts.Version != "" {
		requested = domain.ParseVersionSpec(opts.Version)
	}

	id, err := s.resolver.ResolveID(ctx, requested)
	if err != nil {
		return nil, err
	}

	target := requested.WithID(id)

	if target.String() == inst.Version && flavor == inst.Flavor {
		return nil, fmt.Errorf("%s is at %s %s: %w", name, flavor, inst.Version, ErrAlreadyCurrent)
	}

	warnDowngrade(ctx, current, target)

	resolved, err := s.resolver.Resolve(ctx, flavor, target, s.fabricOptions(opts.Fabric))
	if err != nil {
		return nil, err
	}

	data, err := s.fetcher.FetchAndVerify(ctx, resolved.URL, resolved.Size, resolved.Hash)
	if err != nil {
		return nil, err
	}

	if err = s.persist(ctx, inst.ArtifactPath(), data, resolved.Hash, true); err != nil {
		return nil, err
	}

	updated := inst.Clone()
	updated.Version = resolved.Version()
	updated.Flavor = flavor
	updated.UpdatedAt = s.now()

	if err = s.registry.Replace(ctx, name, updated); err != nil {
		return nil, fmt.Errorf("%w: artifact replaced but record kept %s: %w", ErrDiverged, inst.Version, err)
	}

	logger.InfoKV(ctx, "Instance updated",
		"from", inst.Flavor.String()+" "+inst.Version,
		"to", updated.Flavor.String()+" "+updated.Version,
	)

	return updated, nil
}

// UpdateAll updates every instance independently. A failing instance is
// recorded in the report and does not stop the others.
func (s *Service) UpdateAll(ctx context.Context, opts UpdateOptions) (*Report, error) {
	instances, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Failed: make(map[string]error)}

	for _, inst := range instances {
		if err = ctx.Err(); err != nil {
			report.Failed[inst.Name] = err
			continue
		}

		_, err = s.Update(ctx, inst.Name, opts)

		switch {
		case err == nil:
			report.Updated = append(report.Updated, inst.Name)
		case errors.Is(err, ErrAlreadyCurrent):
			report.Current = append(report.Current, inst.Name)
		default:
			logger.WarnKV(ctx, "Instance update failed", "name", inst.Name, "error", err)
			report.Failed[inst.Name] = err
		}
	}

	logger.InfoKV(ctx, "Update finished",
		"updated", len(report.Updated),
		"current", len(report.Current),
		"failed", len(report.Failed),
	)

	return report, nil
}

// warnDowngrade logs when both versions are comparable releases and target is older.
func warnDowngrade(ctx context.Context, current, target domain.VersionSpec) {
	if current.Kind != domain.Release || target.Kind != domain.Release {
		return
	}

	from, err := semver.NewVersion(current.ID)
	if err != nil {
		return
	}

	to, err := semver.NewVersion(target.ID)
	if err != nil {
		return
	}

	if to.LessThan(from) {
		logger.WarnKV(ctx, "Downgrading server, worlds saved by newer versions may not load",
			"from", current.ID, "to", target.ID)
	}
}
