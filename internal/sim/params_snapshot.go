package sim

import (
	"strconv"

	"sandfall/internal/core"
	"sandfall/internal/material"
)

func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				intParam("chunk", "Chunk size", w.cfg.ChunkSize),
				intParam("sleep_ticks", "Sleep after quiet ticks", w.tracker.Threshold()),
				intParam("workers", "Sweep workers", w.workers),
				int64Param("seed", "Seed", w.seed),
				stringParam("scene", "Scene", w.cfg.Scene),
			},
		},
		{
			Name: "Physics",
			Params: []core.Parameter{
				intParam("flow_budget", "Flow budget", int(w.params.FlowBudget)),
				floatParam("ignition_scale", "Ignition scale", w.params.IgnitionScale),
				floatParam("reaction_scale", "Reaction scale", w.params.ReactionScale),
				intParam("queue_capacity", "Edit queue capacity", params.QueueCapacity),
			},
		},
	}

	var spread []core.Parameter
	all := w.reg.All()
	for i := range all {
		m := &all[i]
		if m.State != material.StateLiquid && m.State != material.StateGas {
			continue
		}
		spread = append(spread, intParam("dispersion."+m.Name, m.Name, w.params.DispersionOf(m)))
	}
	if len(spread) > 0 {
		groups = append(groups, core.ParameterGroup{
			Name:    "Dispersion",
			Params:  spread,
			Summary: "lateral spread per tick, fixed at load time",
		})
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the tunables that may change while running.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "flow_budget", Label: "Flow budget", Type: core.ParamTypeInt, Step: 2, Min: 0, Max: 254, HasMin: true, HasMax: true},
		{Key: "ignition_scale", Label: "Ignition scale", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 10, HasMin: true, HasMax: true},
		{Key: "reaction_scale", Label: "Reaction scale", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 10, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer tunable.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "flow_budget":
		if value < 0 || value > 255 {
			return false
		}
		w.params.FlowBudget = uint8(value)
		w.cfg.Params.FlowBudget = value
		return true
	}
	return false
}

// SetFloatParameter updates a floating point tunable.
func (w *World) SetFloatParameter(key string, value float64) bool {
	if value < 0 {
		return false
	}
	switch key {
	case "ignition_scale":
		w.params.IgnitionScale = value
		w.cfg.Params.IgnitionScale = value
		return true
	case "reaction_scale":
		w.params.ReactionScale = value
		w.cfg.Params.ReactionScale = value
		return true
	}
	return false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
