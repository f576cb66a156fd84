package catalog

import "github.com/hqnguyen/speakdrill/internal/grammar"

// BuiltIn returns the default five-unit course for grade-4 learners. Callers
// get a fresh value each time; the shared slices are never mutated after
// construction.
func BuiltIn() *Catalog {
	return &Catalog{
		Units: map[int]Unit{
			1: {
				ID:         1,
				Name:       "UNIT 1 • MY FRIENDS",
				Vocab:      []string{"America", "Australia", "Britain", "Viet Nam", "Japan", "Thailand", "Malaysia", "Singapore"},
				TopicChips: []string{"countries", "friends", "where from?"},
				Questions:  []string{"Where are you from?", "Where is he from?", "Where is she from?"},
				Builder:    grammar.BuilderCountry,
				Theme:      [2]string{"#3a86ff", "#8b5cf6"},
			},
			2: {
				ID:         2,
				Name:       "UNIT 2 • TIME AND DAILY ROUTINES",
				Vocab:      []string{"o’clock", "thirty", "forty five", "time", "get up", "have breakfast", "go to school", "go to bed", "do homework", "wash face", "clean the teeth"},
				TopicChips: []string{"time", "daily routines"},
				Questions:  []string{"What time do you get up?"},
				Builder:    grammar.BuilderRoutine,
				Theme:      [2]string{"#22c55e", "#06b6d4"},
			},
			3: {
				ID:         3,
				Name:       "UNIT 3 • MY WEEK",
				Vocab:      []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday", "today", "study at school", "do housework", "listen to music", "stay at home"},
				TopicChips: []string{"days", "activities"},
				Questions:  []string{"What day is it today?", "What do you do on Monday?"},
				Builder:    grammar.BuilderWeek,
				Theme:      [2]string{"#f59e0b", "#f43f5e"},
			},
			4: {
				ID:         4,
				Name:       "UNIT 4 • MY BIRTHDAY PARTY",
				Vocab:      []string{"chips", "grapes", "jam", "juice"},
				TopicChips: []string{"food", "drinks", "party"},
				Questions:  []string{"What do you want to eat?", "What do you want to drink?"},
				Builder:    grammar.BuilderParty,
				Theme:      [2]string{"#8b5cf6", "#a78bfa"},
			},
			5: {
				ID:         5,
				Name:       "UNIT 5 • THINGS WE CAN DO",
				Vocab:      []string{"ride a bike", "ride a horse", "play the piano", "play the guitar", "roller skate"},
				TopicChips: []string{"can/can’t", "skills"},
				Questions:  []string{"Can you ride a bike?", "Can he ride a bike?"},
				Builder:    grammar.BuilderAbility,
				Theme:      [2]string{"#ef4444", "#f97316"},
			},
		},
		Days:      []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		Countries: []string{"America", "Australia", "Britain", "Viet Nam", "Japan", "Thailand", "Malaysia", "Singapore"},
		Routines: []string{
			"get up", "have breakfast", "go to school", "go to bed", "do homework", "wash face", "clean the teeth",
		},
		PartyEat:   []string{"chips", "grapes", "jam"},
		PartyDrink: []string{"juice"},
		Abilities:  []string{"ride a bike", "ride a horse", "play the piano", "play the guitar", "roller skate"},
		Illustrations: map[string]string{
			"America": "🇺🇸", "Australia": "🇦🇺", "Britain": "🇬🇧", "Viet Nam": "🇻🇳", "Japan": "🇯🇵", "Thailand": "🇹🇭", "Malaysia": "🇲🇾", "Singapore": "🇸🇬",
			"o’clock": "⏰", "thirty": "🕧", "forty five": "⏱️", "time": "⏳", "get up": "🌅", "have breakfast": "🥣", "go to school": "🏫", "go to bed": "🛌",
			"do homework": "📚", "wash face": "🚿", "clean the teeth": "🪥",
			"Monday": "📅", "Tuesday": "📅", "Wednesday": "📅", "Thursday": "📅", "Friday": "📅", "Saturday": "📅", "Sunday": "📅", "today": "📆",
			"study at school": "📖", "do housework": "🧹", "listen to music": "🎧", "stay at home": "🏠",
			"chips": "🍟", "grapes": "🍇", "jam": "🍓", "juice": "🧃",
			"ride a bike": "🚴", "ride a horse": "🐎", "play the piano": "🎹", "play the guitar": "🎸", "roller skate": "🛼",
		},
	}
}
