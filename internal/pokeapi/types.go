package pokeapi

// IndexRecord is one entry of the index endpoint's results array.
type IndexRecord struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type indexResponse struct {
	Count   int            `json:"count"`
	Results *[]IndexRecord `json:"results"`
}

// Detail is the flattened detail record of one entity.
type Detail struct {
	ID           int
	Name         string
	Abilities    []string
	AbilitySlots []AbilitySlot
	Moves        []string
	Types        []string // ordered by slot, one or two entries
	SpriteURL    string
}

// AbilitySlot keeps the per-ability metadata the detail endpoint reports.
type AbilitySlot struct {
	Name     string
	Slot     int
	IsHidden bool
}

type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type detailResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Abilities []struct {
		Ability  namedRef `json:"ability"`
		IsHidden bool     `json:"is_hidden"`
		Slot     int      `json:"slot"`
	} `json:"abilities"`
	Moves []struct {
		Move namedRef `json:"move"`
	} `json:"moves"`
	Types []struct {
		Slot int      `json:"slot"`
		Type namedRef `json:"type"`
	} `json:"types"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        map[string]struct {
			FrontDefault string `json:"front_default"`
		} `json:"other"`
	} `json:"sprites"`
}

func (r *detailResponse) flatten() *Detail {
	d := &Detail{
		ID:   r.ID,
		Name: r.Name,
	}
	for _, a := range r.Abilities {
		d.Abilities = append(d.Abilities, a.Ability.Name)
		d.AbilitySlots = append(d.AbilitySlots, AbilitySlot{
			Name:     a.Ability.Name,
			Slot:     a.Slot,
			IsHidden: a.IsHidden,
		})
	}
	for _, m := range r.Moves {
		d.Moves = append(d.Moves, m.Move.Name)
	}

	types := make([]string, len(r.Types))
	ordered := true
	for _, t := range r.Types {
		if t.Slot < 1 || t.Slot > len(r.Types) || types[t.Slot-1] != "" {
			ordered = false
			break
		}
		types[t.Slot-1] = t.Type.Name
	}
	if !ordered {
		types = types[:0]
		for _, t := range r.Types {
			types = append(types, t.Type.Name)
		}
	}
	if len(types) > 0 {
		d.Types = types
	}

	if art, ok := r.Sprites.Other["official-artwork"]; ok && art.FrontDefault != "" {
		d.SpriteURL = art.FrontDefault
	} else {
		d.SpriteURL = r.Sprites.FrontDefault
	}
	return d
}
