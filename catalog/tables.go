package catalog

import "mehearsal/model"

// fixed tables of the catalog. Never mutated: readers get copies.

var sampleSongs = [...]model.Track{
	{ID: "1", Title: "Bohemian Rhapsody", Artist: "Queen", Tempo: 72, Duration: "5:55", Genre: "Rock"},
	{ID: "2", Title: "Hotel California", Artist: "Eagles", Tempo: 75, Duration: "6:30", Genre: "Rock"},
	{ID: "3", Title: "Stairway to Heaven", Artist: "Led Zeppelin", Tempo: 82, Duration: "8:02", Genre: "Rock"},
	{ID: "4", Title: "Sweet Child O' Mine", Artist: "Guns N' Roses", Tempo: 125, Duration: "5:03", Genre: "Rock"},
}

var availableInstruments = [...]model.InstrumentSlot{
	{ID: "bass", Name: "Bass", Kind: "bass", Avatar: "🎸", Volume: 75},
	{ID: "drums", Name: "Drums", Kind: "drums", Avatar: "🥁", Volume: 80},
	{ID: "piano", Name: "Piano", Kind: "piano", Avatar: "🎹", Volume: 70},
	{ID: "guitar", Name: "Guitar", Kind: "guitar", Avatar: "🎸", Volume: 75},
	{ID: "violin", Name: "Violin", Kind: "violin", Avatar: "🎻", Volume: 65},
	{ID: "saxophone", Name: "Saxophone", Kind: "saxophone", Avatar: "🎷", Volume: 70},
}

// Instruments returns a copy of the instrument templates.
func Instruments() []model.InstrumentSlot {
	out := make([]model.InstrumentSlot, len(availableInstruments))
	copy(out, availableInstruments[:])
	return out
}

// Instrument returns a copy of the template with the given id.
func Instrument(id string) (model.InstrumentSlot, bool) {
	for _, inst := range availableInstruments {
		if inst.ID == id {
			return inst, true
		}
	}
	return model.InstrumentSlot{}, false
}
