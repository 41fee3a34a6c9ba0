package source

import "context"

const sampleText = `It remains Day 1. This is Jeff Bezos' 2016 letter to shareholders.

Jeff, what does Day 2 look like? That's a question I just got at our most recent all-hands meeting.
I've been reminding people that it's Day 1 for a couple of decades. I work in an Amazon building
named Day 1, and when I moved buildings, I took the name with me. I spend time thinking about this topic.

Day 2 is stasis. Followed by irrelevance. Followed by excruciating, painful decline.
Followed by death. And that is why it is always Day 1.

To be sure, this kind of decline would happen in extreme slow motion. An established company might
harvest Day 2 for decades, but the final result would still come.

I'm interested in the question, how do you fend off Day 2? What are the techniques and tactics?
How do you keep the vitality of Day 1, even inside a large organization?

Such a question can't have a simple answer. There will be many elements, multiple paths, and many
traps. I don't know the whole answer, but I may know bits of it. Here's a starter pack of essentials
for Day 1 defense: customer obsession, a skeptical view of proxies, the eager adoption of external
trends, and high-velocity decision making.
`

// SampleDocument is the built-in excerpt used to smoke-test the pipeline.
var SampleDocument = Document{
	Year:      2016,
	Title:     "2016 Letter to Shareholders (Sample)",
	SourceURL: "https://example.com",
	Text:      sampleText,
}

// SampleReader yields SampleDocument once.
type SampleReader struct{}

func (SampleReader) Entries(ctx context.Context) ([]Entry, error) {
	return TextReader{Doc: SampleDocument, ID: "sample"}.Entries(ctx)
}
