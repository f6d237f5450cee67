package battle

// Weapon is a cosmetic label shown in the round log
type Weapon struct {
	Name  string
	Emoji string
}

// String returns the display form of the weapon
func (w Weapon) String() string {
	return w.Name + " " + w.Emoji
}

// DefaultWeapons is the stock weapon catalog
var DefaultWeapons = []Weapon{
	{Name: "Eldboll", Emoji: "🔥"},
	{Name: "Kokosnöt", Emoji: "🥥"},
	{Name: "Regnbågsvätska", Emoji: "🌈"},
	{Name: "Fisk", Emoji: "🐟"},
	{Name: "Rent gift", Emoji: "🧪"},
	{Name: "Majskolv", Emoji: "🌽"},
	{Name: "Nät", Emoji: "🕸"},
	{Name: "Ägg", Emoji: "🥚"},
	{Name: "Tårtbit", Emoji: "🍰"},
	{Name: "Väckarklocka", Emoji: "⏰"},
	{Name: "Amerikansk fotboll", Emoji: "🏈"},
	{Name: "Vattenpistol", Emoji: "🔫"},
	{Name: "DNA", Emoji: "🧬"},
	{Name: "Kvast", Emoji: "🧹"},
	{Name: "Balans", Emoji: "☯"},
	{Name: "Sömn", Emoji: "💤"},
	{Name: "Munk", Emoji: "🍩"},
	{Name: "Våg", Emoji: "🌊"},
	{Name: "Diamant", Emoji: "💎"},
	{Name: "Ljud", Emoji: "🔊"},
	{Name: "Email", Emoji: "📧"},
	{Name: "Magnet", Emoji: "🧲"},
}
