package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
)

// CampaignPlan is the campaign.yaml shape: capacity numbers, the ordered day
// blocks, and the per-disposition follow-up sequences. Every section is
// optional; omitted sections fall back to the built-in defaults.
type CampaignPlan struct {
	Capacity  campaign.CapacityConfig  `yaml:"capacity"`
	Blocks    []campaign.BlockTemplate `yaml:"blocks"`
	Sequences campaign.SequenceLibrary `yaml:"sequences"`
}

// LoadCampaignPlan reads and validates the campaign plan file. A missing file
// is fine (defaults apply); an invalid one aborts startup — configuration
// errors are fatal, never clamped.
func LoadCampaignPlan(path string) (*CampaignPlan, error) {
	plan := &CampaignPlan{
		Capacity:  campaign.DefaultCapacityConfig(),
		Sequences: campaign.DefaultSequences(),
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, plan); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := plan.Capacity.Validate(); err != nil {
		return nil, fmt.Errorf("%s: capacity: %w", path, err)
	}
	if len(plan.Blocks) == 0 {
		plan.Blocks = campaign.DefaultTemplates(plan.Capacity)
	}
	if err := campaign.ValidateTemplates(plan.Capacity, plan.Blocks); err != nil {
		return nil, fmt.Errorf("%s: blocks: %w", path, err)
	}
	if err := plan.Sequences.Validate(); err != nil {
		return nil, fmt.Errorf("%s: sequences: %w", path, err)
	}
	return plan, nil
}
