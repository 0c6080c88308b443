package db

import (
	"fmt"

	"modernc.org/sqlite/vtab"

	"github.com/asteroid-belt/semverql/internal/extension"
)

// unplannedCost steers the planner away from scans that cannot bind the
// requirement column. The driver has no way to report SQLITE_CONSTRAINT.
const unplannedCost = 1e300

// requirementsModule binds extension.RequirementsCursor to the vtab API.
type requirementsModule struct{}

func (requirementsModule) Create(ctx vtab.Context, _ []string) (vtab.Table, error) {
	return connectRequirements(ctx)
}

func (requirementsModule) Connect(ctx vtab.Context, _ []string) (vtab.Table, error) {
	return connectRequirements(ctx)
}

func connectRequirements(ctx vtab.Context) (vtab.Table, error) {
	if err := ctx.Declare(extension.RequirementsSchema); err != nil {
		return nil, fmt.Errorf("declare %s: %w", extension.RequirementsModule, err)
	}
	return requirementsTable{}, nil
}

type requirementsTable struct{}

func (requirementsTable) BestIndex(info *vtab.IndexInfo) error {
	constraints := make([]extension.IndexConstraint, len(info.Constraints))
	for i, c := range info.Constraints {
		constraints[i] = extension.IndexConstraint{
			Column:   c.Column,
			Equality: c.Op == vtab.OpEQ,
			Usable:   c.Usable,
		}
	}

	plan, err := extension.BestIndex(constraints)
	if err != nil {
		info.IdxNum = 0
		info.EstimatedCost = unplannedCost
		return nil
	}

	info.Constraints[plan.Argument].ArgIndex = 0
	info.Constraints[plan.Argument].Omit = true
	info.IdxNum = plan.IdxNum
	info.EstimatedCost = plan.EstimatedCost
	info.EstimatedRows = plan.EstimatedRows
	return nil
}

func (requirementsTable) Open() (vtab.Cursor, error) {
	return &requirementsCursor{cur: extension.NewRequirementsCursor()}, nil
}

func (requirementsTable) Disconnect() error { return nil }
func (requirementsTable) Destroy() error    { return nil }

type requirementsCursor struct {
	cur *extension.RequirementsCursor
}

func (c *requirementsCursor) Filter(idxNum int, _ string, vals []vtab.Value) error {
	if idxNum == 0 || len(vals) == 0 {
		return extension.ErrConstraint
	}
	return c.cur.Filter(vals[0])
}

func (c *requirementsCursor) Next() error { return c.cur.Next() }
func (c *requirementsCursor) Eof() bool   { return c.cur.EOF() }

func (c *requirementsCursor) Column(col int) (vtab.Value, error) {
	v, err := c.cur.Column(col)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *requirementsCursor) Rowid() (int64, error) { return c.cur.Rowid() }
func (c *requirementsCursor) Close() error          { return c.cur.Close() }
