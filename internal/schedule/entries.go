package schedule

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no entry has the requested slug.
var ErrNotFound = errors.New("entry not found")

// Author credits a person behind an entry.
type Author struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Theme is an entry's display colors as CSS hex strings.
type Theme struct {
	Accent    string `json:"accent"`
	Alternate string `json:"alternate"`
	LightText bool   `json:"lightText"`
}

// Entry is one site in the countdown.
type Entry struct {
	Name        string   `json:"name"`
	LongName    string   `json:"longName,omitempty"`
	Description string   `json:"description,omitempty"`
	Slug        string   `json:"slug"`
	URL         string   `json:"url"`
	DisplayURL  string   `json:"displayUrl,omitempty"`
	// EmbeddableURL replaces URL where the site is framed.
	EmbeddableURL string   `json:"embeddableUrl,omitempty"`
	Theme         *Theme   `json:"color,omitempty"`
	Authors       []Author `json:"authors,omitempty"`
	// Condensible entries are hidden when fish are condensed.
	Condensible bool `json:"condensible,omitempty"`
	// Condensor entries stand in for the condensible ones and are hidden
	// otherwise.
	Condensor bool   `json:"condensor,omitempty"`
	Times     []Time `json:"times"`
}

// Title returns the long name if there is one.
func (e Entry) Title() string {
	if e.LongName != "" {
		return e.LongName
	}
	return e.Name
}

// FrameURL returns the address to embed for the entry.
func (e Entry) FrameURL() string {
	if e.EmbeddableURL != "" {
		return e.EmbeddableURL
	}
	return e.URL
}

var (
	brooke = Author{Name: "Brooke", URL: "https://breq.dev"}
	luke   = Author{Name: "Luke", URL: "https://lukefelixtaylor.com"}

	plainTheme = &Theme{Accent: "#fff", Alternate: "#ccc"}
	fishTheme  = &Theme{Accent: "#1e90ff", Alternate: "#045db6", LightText: true}

	elevenElevens = []Time{At(11, 11), At(23, 11)}
)

// Entries is the countdown table in display order.
var Entries = []Entry{
	{
		Name:        "Make a Seq.",
		LongName:    "Make a Sequence",
		Slug:        "make-a-sequence",
		URL:         "https://sequence.breq.dev",
		Description: "See a random OEIS integer sequence!",
		Theme:       plainTheme,
		Authors:     []Author{brooke},
		Times:       []Time{At(0, 34), At(12, 34)},
	},
	{
		Name:        "Make a Cat",
		Slug:        "make-a-cat",
		URL:         "https://makea.cat",
		Description: "Generate a random cat!",
		Theme:       &Theme{Accent: "#bf86fe", Alternate: "#bf86fe"},
		Authors:     []Author{{Name: "Golden", URL: "https://goldenstack.net/"}},
		Times:       []Time{At(2, 22), At(14, 22)},
	},
	{
		Name:        "Make a Byte",
		Slug:        "make-a-byte",
		URL:         "https://makeabyte.lftq.in",
		Description: "See a random byte value with different interpretations including ASCII, binary, and 6502 opcode.",
		Theme:       &Theme{Accent: "#3a2354", Alternate: "#261539", LightText: true},
		Authors:     []Author{luke, brooke},
		Times:       []Time{At(2, 55), At(14, 55)},
	},
	{
		Name:        "Make a Horse",
		Slug:        "make-a-horse",
		URL:         "https://makea.horse",
		Description: "Generate a random horse!",
		Theme:       &Theme{Accent: "#bf826a", Alternate: "#bf826a"},
		Authors:     []Author{{Name: "makeahorse guy"}},
		Times:       []Time{At(3, 33), At(15, 33)},
	},
	{
		Name:        "Dial a Fish",
		Slug:        "dial-a-fish",
		URL:         "https://queercomputerclub.ca/projects/quecey-voip/",
		DisplayURL:  "queercomputerclub.ca/projects/quecey-voip",
		Description: "Fish image via SSTV over a phone call!",
		Theme:       &Theme{Accent: "#e8a2e3", Alternate: "#db78d4"},
		Authors: []Author{
			{Name: "Ari", URL: "https://adryd.com/"},
			{Name: "Blackle", URL: "https://suricrasia.online/"},
		},
		Times: []Time{EveryHour(11)},
	},
	{
		Name:          "Make a Fish",
		Slug:          "make-a-fish",
		URL:           "http://makea.fish",
		EmbeddableURL: "https://fishmultiplex.lftq.dev/makeafish",
		Condensible:   true,
		Description:   "The original site that sparked it all! Makes a random patterned fish. HTTP only.",
		Theme:         &Theme{Accent: "#0000ff", Alternate: "#020299", LightText: true},
		Authors:       []Author{{Name: "Willow", URL: "https://weepingwitch.github.io/"}},
		Times:         elevenElevens,
	},
	{
		Name:          "SSH a Fissh",
		Slug:          "ssh-a-fissh",
		URL:           "https://fissh.breq.dev",
		EmbeddableURL: "https://webssh.lftq.dev",
		Condensible:   true,
		Description:   "Get an ASCII art fish via an SSH connection!",
		Theme:         &Theme{Accent: "#001156", Alternate: "#0c2897", LightText: true},
		Authors:       []Author{brooke, {Name: "Ava", URL: "https://avasilver.dev/"}},
		Times:         elevenElevens,
	},
	{
		Name:        "Spin a Fish",
		Slug:        "spin-a-fish",
		URL:         "https://fish.lftq.dev",
		Condensible: true,
		Description: "A random, spinnable, Minecraft-style 3D fish.",
		Theme:       fishTheme,
		Authors:     []Author{luke},
		Times:       elevenElevens,
	},
	{
		Name:        "Make 3 Fish",
		LongName:    "Fish Multiplexer",
		Slug:        "fish-multiplex",
		Condensor:   true,
		URL:         "https://fishmultiplex.lftq.dev",
		Description: "Get the Make a Fish, SSH a Fish, and Spin a Fish all in one site.",
		Theme:       fishTheme,
		Authors:     []Author{luke},
		Times:       elevenElevens,
	},
	{
		Name:        "Make a Wiish",
		Slug:        "make-a-wiish",
		URL:         "https://wiish.bramdj.dev",
		Description: "Catch a random fish from Wii Play Fishing!",
		Theme:       plainTheme,
		Authors:     []Author{{Name: "Bram", URL: "https://bramdj.dev"}},
		Times:       elevenElevens,
	},
	{
		Name:        "X11:11 a Fish",
		LongName:    "X11:11 Make a Fish",
		Slug:        "x1111-a-fish",
		URL:         "https://miakizz.quest/xfish",
		DisplayURL:  "miakizz.quest/xfish",
		Description: "Connect your X11 server and see a drawn fish image!",
		Theme:       plainTheme,
		Authors:     []Author{{Name: "Mia", URL: "https://miakizz.quest/"}},
		Times:       elevenElevens,
	},
	{
		Name:        "Bake a Dish",
		Slug:        "bake-a-dish",
		URL:         "https://tris.fyi/dish/",
		DisplayURL:  "tris.fyi/dish",
		Description: "See a random baked dish recipe!",
		Theme:       plainTheme,
		Authors:     []Author{{Name: "Tris", URL: "https://tris.fyi/"}},
		Times:       []Time{At(22, 22)},
	},
}

// FindBySlug returns the entry with the given slug.
func FindBySlug(entries []Entry, slug string) (Entry, error) {
	for _, e := range entries {
		if e.Slug == slug {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
}
