package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageDestinations(t *testing.T) {
	body := []byte(`# Title

![hero](https://cdn.example.com/hero.png)

Some text with a [link](https://cdn.example.com/not-an-image.png).

![other](https://other.example.org/x.jpg)
![hero again](https://cdn.example.com/hero.png)
`)

	dests := ImageDestinations(body, []string{"https://cdn.example.com"})
	assert.Equal(t, []string{"https://cdn.example.com/hero.png"}, dests)
}

func TestImageDestinationsIgnoresCodeBlocks(t *testing.T) {
	body := []byte("```\n![in code](https://cdn.example.com/code.png)\n```\n\n![real](https://cdn.example.com/real.png)\n")

	dests := ImageDestinations(body, []string{"https://cdn.example.com"})
	assert.Equal(t, []string{"https://cdn.example.com/real.png"}, dests)
}

func TestImageDestinationsNoOrigins(t *testing.T) {
	assert.Nil(t, ImageDestinations([]byte("![x](https://cdn.example.com/x.png)"), nil))
}

func TestImageDestinationsMultipleOrigins(t *testing.T) {
	body := []byte("![a](https://a.example.com/a.png) ![b](https://b.example.com/b.png)")
	dests := ImageDestinations(body, []string{"https://a.example.com", "https://b.example.com"})
	assert.Equal(t, []string{"https://a.example.com/a.png", "https://b.example.com/b.png"}, dests)
}
