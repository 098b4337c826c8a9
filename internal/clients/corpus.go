package clients

import "math/rand"

// mockJokes backs the mock backend.
var mockJokes = []string{
	"⟩ Breaking: Local man discovers that his refrigerator has been judging his late-night snack choices all along!",
	"⟩ Scientists confirm that Monday mornings are indeed a conspiracy designed by coffee companies!",
	"⟩ Weather forecast predicts 100% chance of people complaining about the weather!",
	"⟩ Study reveals that 9 out of 10 people don't know they're the 10th person!",
	"⟩ Local cat appointed as new CEO after demonstrating superior napping skills!",
	"⟩ Tech breakthrough: Scientists finally figure out why USB cables need three attempts to plug in correctly!",
	"⟩ Economic experts baffled: Man saves money by not buying things he doesn't need!",
	"⟩ Breaking research: Vegetables taste better when you pretend they're pizza!",
	"⟩ Social media study finds people more interested in photos of food than actual food!",
	"⟩ Space mission success: Astronauts confirm Earth looks round from space, flat-earthers request second opinion!",
	"⟩ Financial news: Cryptocurrency investor accidentally makes money, economists confused!",
	"⟩ Sports update: Local team wins game, fans unsure how to handle emotions!",
	"⟩ Politics simplified: Everyone agrees to disagree, world peace achieved for 5 minutes!",
	"⟩ Health tip: Walking 10,000 steps daily recommended, elevators file complaint!",
	"⟩ Tech news: New app promises to fix all problems, creates 47 new ones instead!",
}

// fallbackJokes replace a Gemini answer when the call fails.
var fallbackJokes = []string{
	"⟩ AI is taking a coffee break, but the news is still funny!",
	"⟩ Error 404: Humor not found, but we're still laughing!",
	"⟩ Technical difficulties, but at least it's not Monday!",
	"⟩ News so fresh, even our AI needs time to process it!",
	"⟩ Breaking: Comedy generator temporarily broken, irony intact!",
}

// emptyCandidateJoke is returned when Gemini answers without any text.
const emptyCandidateJoke = "Breaking news turned into breaking comedy - details at 11!"

func pickRandom(corpus []string) string {
	return corpus[rand.Intn(len(corpus))]
}
