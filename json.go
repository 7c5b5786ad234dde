package goplot

import "encoding/json"

// JSON encoding of outputs. A sampled value is written according to its
// channel: a number for Real and Imag series, a [re, im] pair for Complex
// ones. NaN and infinite parts become null, which is also how gaps are
// written.

func jsonFloat(f float64) any {
	if !finite(f) {
		return nil
	}
	return f
}

func jsonValue(ch Channel, z complex128) any {
	switch ch {
	case Real:
		return jsonFloat(real(z))
	case Imag:
		return jsonFloat(imag(z))
	}
	return [2]any{jsonFloat(real(z)), jsonFloat(imag(z))}
}

func jsonValues(ch Channel, zs []complex128) []any {
	out := make([]any, len(zs))
	for i, z := range zs {
		out[i] = jsonValue(ch, z)
	}
	return out
}

func (s *Series1D) MarshalJSON() ([]byte, error) {
	v := struct {
		Type    string  `json:"type"`
		Axis    string  `json:"axis"`
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
		Held    string  `json:"held,omitempty"`
		HeldAt  any     `json:"held_at,omitempty"`
		Channel Channel `json:"channel"`
		Values  []any   `json:"values"`
	}{
		Type: s.outputName(), Axis: s.Axis, Start: s.Start, End: s.End,
		Held: s.Held, Channel: s.Channel, Values: jsonValues(s.Channel, s.Values),
	}
	if s.Held != "" {
		v.HeldAt = s.HeldAt
	}
	return json.Marshal(v)
}

func (s *Surface) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string     `json:"type"`
		Start   [2]float64 `json:"start"`
		End     [2]float64 `json:"end"`
		Size    [2]int     `json:"size"`
		Channel Channel    `json:"channel"`
		Values  []any      `json:"values"`
	}{
		Type:    s.outputName(),
		Start:   [2]float64{s.StartX, s.StartY},
		End:     [2]float64{s.EndX, s.EndY},
		Size:    [2]int{s.NX, s.NY},
		Channel: s.Channel,
		Values:  jsonValues(s.Channel, s.Values),
	})
}

func (s *Series2D) MarshalJSON() ([]byte, error) {
	pts := make([][2]any, len(s.Points))
	for i, p := range s.Points {
		pts[i] = [2]any{jsonFloat(p.X), jsonValue(s.Channel, p.Y)}
	}
	return json.Marshal(struct {
		Type    string   `json:"type"`
		Channel Channel  `json:"channel"`
		Points  [][2]any `json:"points"`
	}{s.outputName(), s.Channel, pts})
}

func (s *Series3D) MarshalJSON() ([]byte, error) {
	pts := make([][3]any, len(s.Points))
	for i, p := range s.Points {
		pts[i] = [3]any{jsonFloat(p.X), jsonFloat(p.Y), jsonValue(s.Channel, p.Z)}
	}
	return json.Marshal(struct {
		Type    string   `json:"type"`
		Channel Channel  `json:"channel"`
		Points  [][3]any `json:"points"`
	}{s.outputName(), s.Channel, pts})
}

func (c *ConstantValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string  `json:"type"`
		Channel  Channel `json:"channel"`
		Value    any     `json:"value"`
		Vertical bool    `json:"vertical,omitempty"`
	}{c.outputName(), c.Channel, jsonValue(c.Channel, c.Value), c.Vertical})
}

func (c *ConstantPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Point [2]any `json:"point"`
	}{c.outputName(), [2]any{jsonFloat(c.Point.X), jsonFloat(c.Point.Y)}})
}

func (l *List) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []Output{}
	}
	return json.Marshal(struct {
		Type  string   `json:"type"`
		Items []Output `json:"items"`
	}{l.outputName(), items})
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Slot   int    `json:"slot"`
		Output Output `json:"output"`
	}{r.Slot, r.Output})
}
