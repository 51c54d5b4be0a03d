package campaign

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type BlockType string

const (
	BlockPrep        BlockType = "prep"
	BlockHighConnect BlockType = "high_connect"
	BlockCleanup     BlockType = "cleanup"
	BlockLunch       BlockType = "lunch"
	BlockOverflow    BlockType = "overflow"
)

var (
	ErrOverlappingBlocks   = errors.New("block templates overlap")
	ErrNonContiguousBlocks = errors.New("block templates leave a gap in the workday")
	ErrBlockOutsideDay     = errors.New("block template falls outside work hours")
	ErrNegativeCapacity    = errors.New("block capacity must be non-negative")
	ErrUnknownBlockType    = errors.New("unknown block type")
)

// BlockTemplate describes one typed slice of the workday. Hours are fractional
// local hours of day; capacity is call slots (zero for lunch and prep by
// convention, but that is data, not a special case).
type BlockTemplate struct {
	Type      BlockType `yaml:"type" json:"type"`
	Label     string    `yaml:"label" json:"label"`
	StartHour float64   `yaml:"start_hour" json:"start_hour"`
	EndHour   float64   `yaml:"end_hour" json:"end_hour"`
	Capacity  int       `yaml:"capacity" json:"capacity"`
}

func (t BlockTemplate) validType() bool {
	switch t.Type {
	case BlockPrep, BlockHighConnect, BlockCleanup, BlockLunch, BlockOverflow:
		return true
	}
	return false
}

// contains reports whether the fractional hour h falls in [StartHour, EndHour).
// Half-open so a boundary hour belongs to exactly one block.
func (t BlockTemplate) contains(h float64) bool {
	return t.StartHour <= h && h < t.EndHour
}

const hourEpsilon = 1e-9

// ValidateTemplates rejects unordered, overlapping, or non-contiguous
// templates before any day is planned. A configuration error here is fatal;
// the planner never truncates or reorders silently.
func ValidateTemplates(cfg CapacityConfig, templates []BlockTemplate) error {
	if len(templates) == 0 {
		return errors.New("at least one block template is required")
	}
	for i, t := range templates {
		if !t.validType() {
			return fmt.Errorf("%w: %q (template %d)", ErrUnknownBlockType, t.Type, i)
		}
		if t.Capacity < 0 {
			return fmt.Errorf("%w: %q has capacity %d", ErrNegativeCapacity, t.Label, t.Capacity)
		}
		if t.EndHour <= t.StartHour {
			return fmt.Errorf("%w: %q runs %v-%v", ErrOverlappingBlocks, t.Label, t.StartHour, t.EndHour)
		}
		if t.StartHour < cfg.WorkStartHour-hourEpsilon || t.EndHour > cfg.WorkEndHour+hourEpsilon {
			return fmt.Errorf("%w: %q runs %v-%v, work hours are %v-%v",
				ErrBlockOutsideDay, t.Label, t.StartHour, t.EndHour, cfg.WorkStartHour, cfg.WorkEndHour)
		}
		if i == 0 {
			continue
		}
		prev := templates[i-1]
		if t.StartHour < prev.EndHour-hourEpsilon {
			return fmt.Errorf("%w: %q starts at %v before %q ends at %v",
				ErrOverlappingBlocks, t.Label, t.StartHour, prev.Label, prev.EndHour)
		}
		if t.StartHour > prev.EndHour+hourEpsilon {
			return fmt.Errorf("%w: between %q (ends %v) and %q (starts %v)",
				ErrNonContiguousBlocks, prev.Label, prev.EndHour, t.Label, t.StartHour)
		}
	}
	if math.Abs(templates[0].StartHour-cfg.WorkStartHour) > hourEpsilon {
		return fmt.Errorf("%w: first block starts at %v, work day starts at %v",
			ErrNonContiguousBlocks, templates[0].StartHour, cfg.WorkStartHour)
	}
	last := templates[len(templates)-1]
	if math.Abs(last.EndHour-cfg.WorkEndHour) > hourEpsilon {
		return fmt.Errorf("%w: last block ends at %v, work day ends at %v",
			ErrNonContiguousBlocks, last.EndHour, cfg.WorkEndHour)
	}
	return nil
}

// DefaultTemplates derives Dannia's standard day from the capacity config:
// half an hour of prep, a high-connect morning, lunch, a cleanup afternoon,
// and a final overflow hour. Capacities are split by the sustainable dial
// rate and never sum past MaxCallsPerDay.
func DefaultTemplates(cfg CapacityConfig) []BlockTemplate {
	rate := cfg.CallsPerHour()
	alloc := func(start, end float64) int {
		return int(math.Floor((end - start) * rate))
	}

	prepEnd := cfg.WorkStartHour + 0.5
	overflowStart := cfg.WorkEndHour - 1

	templates := []BlockTemplate{
		{Type: BlockPrep, Label: "Prep & Review", StartHour: cfg.WorkStartHour, EndHour: prepEnd, Capacity: 0},
		{Type: BlockHighConnect, Label: "Morning Power Hour", StartHour: prepEnd, EndHour: cfg.LunchStartHour,
			Capacity: alloc(prepEnd, cfg.LunchStartHour)},
		{Type: BlockLunch, Label: "Lunch", StartHour: cfg.LunchStartHour, EndHour: cfg.LunchEndHour, Capacity: 0},
		{Type: BlockCleanup, Label: "Afternoon Cleanup", StartHour: cfg.LunchEndHour, EndHour: overflowStart,
			Capacity: alloc(cfg.LunchEndHour, overflowStart)},
		{Type: BlockOverflow, Label: "Overflow & Callbacks", StartHour: overflowStart, EndHour: cfg.WorkEndHour,
			Capacity: alloc(overflowStart, cfg.WorkEndHour)},
	}

	// Trim from the back so the day never exceeds the configured maximum.
	total := 0
	for _, t := range templates {
		total += t.Capacity
	}
	for i := len(templates) - 1; i >= 0 && total > cfg.MaxCallsPerDay; i-- {
		over := total - cfg.MaxCallsPerDay
		cut := templates[i].Capacity
		if cut > over {
			cut = over
		}
		templates[i].Capacity -= cut
		total -= cut
	}
	return templates
}

// DayBlock is one planned block of a concrete day. ConsumedCalls is advanced
// by the pacing monitor as outcomes are recorded, never past Capacity.
type DayBlock struct {
	Template      BlockTemplate `json:"template"`
	Date          time.Time     `json:"date"`
	ConsumedCalls int           `json:"consumed_calls"`
}

func (b *DayBlock) RemainingCapacity() int {
	return b.Template.Capacity - b.ConsumedCalls
}

// DayPlan is the ordered set of blocks planned for one day. Plans are rebuilt
// at day rollover; consumed counters do not survive into the next day.
type DayPlan struct {
	Date   time.Time   `json:"date"`
	Blocks []*DayBlock `json:"blocks"`
}

// PlanDay materializes the templates for the given date. Construction is
// deterministic and side-effect free; templates are assumed pre-validated.
func PlanDay(date time.Time, templates []BlockTemplate) *DayPlan {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	blocks := make([]*DayBlock, len(templates))
	for i, t := range templates {
		blocks[i] = &DayBlock{Template: t, Date: day}
	}
	return &DayPlan{Date: day, Blocks: blocks}
}

// hourOf converts a timestamp to a fractional local hour of day.
func hourOf(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// ActiveBlockAt returns the block whose [start, end) interval covers the
// timestamp, or nil if the timestamp falls on another day or outside every
// block. A block's end hour belongs to the next block, never to the block
// itself, so a boundary timestamp resolves to exactly one block.
func (p *DayPlan) ActiveBlockAt(t time.Time) *DayBlock {
	if p == nil || !sameDay(p.Date, t) {
		return nil
	}
	h := hourOf(t)
	for _, b := range p.Blocks {
		if b.Template.contains(h) {
			return b
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
