package config

// Curated from a manual read of the compiled journal.
var (
	DefaultBodyVetoes  = []string{"quiz", "test", "results:"}
	DefaultTitleVetoes = []string{"update", "chit-chat"}

	DefaultPoemTitles = []string{
		"Kuch log kabhi kuch", "kabhi yun hua ke", "Morning 'O' Morning",
		"Kyon hai yeh shak-o-shuba", "yet another from my collection",
		"something more", "Kuch baaton ke hi chaakar mein", "miss hope tum ho tope",
		"Soch", "Naari ka abhimaan sahi hai", "For all we are", "Changing Times",
		"Hum Matwale Hain", "The Time flies by", "badhai sandesh", "Untitled",
		"Q&A", "Random Poem", "and the story continues", "Maafi",
		"Kyun main itni baat karta hun", "Khushi hai aaj ya", "Vicchoh",
		"Matrix Desi Istyle mein", "Naya Warsh", "Ghazal writing",
		"Kya hai yah sab", "Subah hai aati", "Naari",
	}

	DefaultProseTitles = []string{
		"Generic Chit-Chat", "Nothing New", "How Torturous a movie can be",
		"koi mujhe kaam do", "Oh God Why do I need to say it",
		"A Journey into the Wild", "Re-login", "For what do we exist",
		"Whats latest", "Living alone", "Calvin", "Random Thoughts",
		"Nourtourn 2005", "Working with multiple windows", "Supra Maan",
		"Forward Menace", "birthdate",
	}
)
