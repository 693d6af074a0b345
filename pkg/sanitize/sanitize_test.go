package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "Vera Wang", Text("  <b>Vera</b> Wang "))
	assert.Equal(t, "Tom & Jerry", Text("Tom & Jerry"))
	assert.Equal(t, "", Text("<script>alert(1)</script>"))
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, OptionalText(nil))

	blank := "<i></i>  "
	assert.Nil(t, OptionalText(&blank))

	phone := "+7 900 <em>000</em>"
	got := OptionalText(&phone)
	if assert.NotNil(t, got) {
		assert.Equal(t, "+7 900 000", *got)
	}
}
