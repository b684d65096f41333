// Package profile loads heuristics profiles: YAML files that tune combatant
// classification and timeline conversion without code changes.
package profile

import (
	"github.com/actlog/actlog-go/pkg/actlog/classify"
	"github.com/actlog/actlog-go/pkg/actlog/timeline"
)

// Profile is the structure of a heuristics file.
//
// Example YAML file:
//
//	version: 1
//	pet_names: [Buddy]
//	arena_center: {x: 0, y: 0}
//	role_labels: [T1, T2, H1, H2, D1, D2, D3, D4]
//	fps: 60
//	status_colors:
//	  - keywords: [gaze]
//	    color: "#2d3436"
type Profile struct {
	// Version is the file format version. Only version 1 is supported.
	Version int `yaml:"version"`

	// PetNames are added to the built-in pet list.
	PetNames []string `yaml:"pet_names"`

	// ArenaCenter replaces the assumed arena center when set.
	ArenaCenter *timeline.Point `yaml:"arena_center"`

	// RoleLabels replaces the default role labels when non-empty.
	RoleLabels []string `yaml:"role_labels"`

	// StatusColors are tried before the built-in color rules.
	StatusColors []timeline.ColorRule `yaml:"status_colors"`

	FPS        int    `yaml:"fps"`
	Background string `yaml:"background"`
}

// Classifier returns a classifier that knows the profile's pet names.
// A nil profile yields classify.Default.
func (p *Profile) Classifier() *classify.Classifier {
	if p == nil || len(p.PetNames) == 0 {
		return classify.Default
	}
	return classify.New(p.PetNames...)
}

// Apply fills the fields of opts the caller left unset from the profile.
func (p *Profile) Apply(opts timeline.Options) timeline.Options {
	if p == nil {
		return opts
	}
	if opts.ArenaCenter == nil && p.ArenaCenter != nil {
		c := *p.ArenaCenter
		opts.ArenaCenter = &c
	}
	if len(opts.RoleLabels) == 0 && len(p.RoleLabels) > 0 {
		opts.RoleLabels = append([]string(nil), p.RoleLabels...)
	}
	if opts.ColorRules == nil && len(p.StatusColors) > 0 {
		rules := make([]timeline.ColorRule, 0, len(p.StatusColors)+len(timeline.DefaultColorRules))
		rules = append(rules, p.StatusColors...)
		opts.ColorRules = append(rules, timeline.DefaultColorRules...)
	}
	if opts.FPS <= 0 {
		opts.FPS = p.FPS
	}
	if opts.Background == "" {
		opts.Background = p.Background
	}
	return opts
}
