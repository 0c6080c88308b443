package extension

import (
	"fmt"
	"math"
	"strconv"

	"github.com/asteroid-belt/semverql/internal/host"
	"github.com/asteroid-belt/semverql/internal/semver"
)

// RequirementsSchema declares the columns of semver_requirements.
const RequirementsSchema = `CREATE TABLE x(op TEXT, major INTEGER NOT NULL, minor INTEGER, patch INTEGER, pre TEXT, requirement HIDDEN)`

// Column indexes of semver_requirements.
const (
	ColumnOp = iota
	ColumnMajor
	ColumnMinor
	ColumnPatch
	ColumnPre
	ColumnRequirement
)

// Planner estimates for a requirement scan.
const (
	requirementsIdxNum = 2
	requirementsCost   = 100000
	requirementsRows   = 100000
)

// IndexConstraint is one WHERE term offered by the planner.
type IndexConstraint struct {
	Column   int
	Equality bool
	Usable   bool
}

// IndexPlan is the answer to a planning request. Argument is the position
// in the constraint list whose value is passed to Filter.
type IndexPlan struct {
	Argument      int
	IdxNum        int64
	EstimatedCost float64
	EstimatedRows int64
}

// BestIndex picks the usable equality constraint on the requirement column.
// Without one the plan is rejected with ErrConstraint.
func BestIndex(constraints []IndexConstraint) (IndexPlan, error) {
	for i, c := range constraints {
		if c.Column == ColumnRequirement && c.Equality && c.Usable {
			return IndexPlan{
				Argument:      i,
				IdxNum:        requirementsIdxNum,
				EstimatedCost: requirementsCost,
				EstimatedRows: requirementsRows,
			}, nil
		}
	}
	return IndexPlan{}, ErrConstraint
}

type cursorState int

const (
	unpositioned cursorState = iota
	positioned
	exhausted
)

// RequirementsCursor yields one row per comparator of a requirement.
type RequirementsCursor struct {
	state cursorState
	req   *semver.Requirement
	row   int
}

// NewRequirementsCursor returns an unpositioned cursor.
func NewRequirementsCursor() *RequirementsCursor {
	return &RequirementsCursor{}
}

// Filter parses requirement and positions the cursor on the first
// comparator, or at the end when there are none.
func (c *RequirementsCursor) Filter(requirement host.Value) error {
	text, ok := host.Text(requirement)
	if !ok {
		c.reset()
		return fmt.Errorf("%w: requirement must be text, got %s", ErrArgument, typeName(requirement))
	}
	req, err := semver.ParseRequirement(text)
	if err != nil {
		c.reset()
		return fmt.Errorf("requirement: %w", err)
	}
	c.req = req
	c.row = 0
	c.state = positioned
	if len(req.Comparators) == 0 {
		c.state = exhausted
	}
	return nil
}

// Next advances to the following comparator. It is a no-op once the cursor
// is exhausted.
func (c *RequirementsCursor) Next() error {
	switch c.state {
	case exhausted:
		return nil
	case unpositioned:
		return fmt.Errorf("%w: next on a cursor that was never filtered", ErrInternal)
	}
	c.row++
	if c.row >= len(c.req.Comparators) {
		c.state = exhausted
	}
	return nil
}

// EOF reports whether no current row exists.
func (c *RequirementsCursor) EOF() bool {
	return c.state != positioned
}

// Column returns column i of the current row.
func (c *RequirementsCursor) Column(i int) (host.Value, error) {
	if c.state != positioned {
		return nil, fmt.Errorf("%w: column read without a current row", ErrInternal)
	}
	cmp := c.req.Comparators[c.row]
	switch i {
	case ColumnOp:
		return cmp.Op.String(), nil
	case ColumnMajor:
		return integer(cmp.Major), nil
	case ColumnMinor:
		if !cmp.HasMinor {
			return nil, nil
		}
		return integer(cmp.Minor), nil
	case ColumnPatch:
		if !cmp.HasPatch {
			return nil, nil
		}
		return integer(cmp.Patch), nil
	case ColumnPre:
		if len(cmp.Pre) == 0 {
			return nil, nil
		}
		return cmp.PrereleaseString(), nil
	case ColumnRequirement:
		return c.req.String(), nil
	}
	return nil, fmt.Errorf("%w: no column %d", ErrInternal, i)
}

// Rowid returns the index of the current comparator.
func (c *RequirementsCursor) Rowid() (int64, error) {
	if c.state != positioned {
		return 0, fmt.Errorf("%w: rowid read without a current row", ErrInternal)
	}
	return int64(c.row), nil
}

// Close releases the parsed requirement.
func (c *RequirementsCursor) Close() error {
	c.reset()
	return nil
}

func (c *RequirementsCursor) reset() {
	c.state = unpositioned
	c.req = nil
	c.row = 0
}

// integer renders n as an int64 column, or as decimal text when it does not
// fit.
func integer(n uint64) host.Value {
	if n > math.MaxInt64 {
		return strconv.FormatUint(n, 10)
	}
	return int64(n)
}
