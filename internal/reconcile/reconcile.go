// Package reconcile synchronizes a many-to-many association with a
// client-supplied set of target names.
//
// A Reconciler is used once per owner entity: it diffs the owner's current
// links against the desired names, optionally runs a guard over the planned
// removals, resolves the names that must be added, and hands every addition
// and removal to Apply in a single call. Callers run Reconcile inside a store
// transaction so that Apply either lands completely or not at all.
package reconcile

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// ErrUnknownName is returned when a desired name has no matching target.
var ErrUnknownName = errors.New("unknown name")

// ErrProtectedName is returned by a guard built with Protect when a planned
// removal names a protected target.
var ErrProtectedName = errors.New("protected name cannot be removed")

// Plan is the outcome of diffing current links against desired names.
type Plan struct {
	// Keep are current links whose names are still desired.
	Keep []types.Link
	// Remove are current links whose names are no longer desired.
	Remove []types.Link
	// Add are desired names with no current link, in first-seen order.
	Add []string
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.Remove) == 0 && len(p.Add) == 0
}

// Names returns the names the association holds once the plan is applied,
// sorted.
func (p Plan) Names() []string {
	names := make([]string, 0, len(p.Keep)+len(p.Add))
	for _, link := range p.Keep {
		names = append(names, link.TargetName)
	}
	names = append(names, p.Add...)
	slices.Sort(names)
	return names
}

// Diff plans the changes that turn current into desired. A desired list that
// is not present keeps everything. Duplicate desired names collapse to one
// and duplicate current links beyond the first are scheduled for removal.
func Diff(current []types.Link, desired types.NameList) Plan {
	if !desired.Present {
		return Plan{Keep: slices.Clone(current)}
	}

	want := make(map[string]bool, len(desired.Names))
	for _, name := range desired.Names {
		want[name] = true
	}

	var plan Plan
	have := make(map[string]bool, len(current))
	for _, link := range current {
		if want[link.TargetName] && !have[link.TargetName] {
			plan.Keep = append(plan.Keep, link)
		} else {
			plan.Remove = append(plan.Remove, link)
		}
		have[link.TargetName] = true
	}

	queued := make(map[string]bool, len(desired.Names))
	for _, name := range desired.Names {
		if have[name] || queued[name] {
			continue
		}
		queued[name] = true
		plan.Add = append(plan.Add, name)
	}
	return plan
}

// Resolver maps names to target ids. Names without a target are left out of
// the returned map.
type Resolver func(ctx context.Context, names []string) (map[string]uuid.UUID, error)

// Applier performs the planned link changes. add holds target ids to link
// and remove holds link ids to delete.
type Applier func(ctx context.Context, add []uuid.UUID, remove []uuid.UUID) error

// Guard inspects a plan before any name is resolved or any link is changed.
// A non-nil error aborts the reconciliation.
type Guard func(plan Plan) error

// Protect returns a guard that rejects removing any of the given names.
func Protect(names ...string) Guard {
	return func(plan Plan) error {
		for _, link := range plan.Remove {
			if slices.Contains(names, link.TargetName) {
				return oops.Code("RECONCILE_PROTECTED").With("name", link.TargetName).Wrap(ErrProtectedName)
			}
		}
		return nil
	}
}

// Result describes a finished reconciliation.
type Result struct {
	// Names is the sorted set of names linked after reconciliation.
	Names []string
	// Added and Removed count the link changes that were applied.
	Added   int
	Removed int
}

// Reconciler keeps one association type in sync.
type Reconciler struct {
	Resolve Resolver
	Apply   Applier
	Guard   Guard
}

// Reconcile brings the owner's links in line with desired. When desired is
// not present nothing is resolved or applied. On any error nothing has been
// passed to Apply, unless Apply itself failed.
func (r Reconciler) Reconcile(ctx context.Context, current []types.Link, desired types.NameList) (Result, error) {
	plan := Diff(current, desired)
	if !desired.Present {
		return Result{Names: plan.Names()}, nil
	}

	if r.Guard != nil {
		if err := r.Guard(plan); err != nil {
			return Result{}, err
		}
	}

	var addIDs []uuid.UUID
	if len(plan.Add) > 0 {
		resolved, err := r.Resolve(ctx, plan.Add)
		if err != nil {
			return Result{}, oops.Code("RECONCILE_RESOLVE_FAILED").Wrap(err)
		}
		var missing []string
		for _, name := range plan.Add {
			id, ok := resolved[name]
			if !ok {
				missing = append(missing, name)
				continue
			}
			addIDs = append(addIDs, id)
		}
		if len(missing) > 0 {
			return Result{}, oops.Code("RECONCILE_UNKNOWN_NAME").
				With("names", missing).
				Wrapf(ErrUnknownName, "%s", strings.Join(missing, ", "))
		}
	}

	if plan.Empty() {
		return Result{Names: plan.Names()}, nil
	}

	removeIDs := make([]uuid.UUID, 0, len(plan.Remove))
	for _, link := range plan.Remove {
		removeIDs = append(removeIDs, link.ID)
	}
	if err := r.Apply(ctx, addIDs, removeIDs); err != nil {
		return Result{}, oops.Code("RECONCILE_APPLY_FAILED").Wrap(err)
	}

	return Result{
		Names:   plan.Names(),
		Added:   len(addIDs),
		Removed: len(removeIDs),
	}, nil
}
