package form

import (
	"strings"
	"testing"
	"time"

	"auctioneer/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValueErrorHiddenUntilTouched(t *testing.T) {
	for _, initial := range []string{"", "x", "a@b"} {
		f := NewValue(initial, Email)
		assert.False(t, f.Touched())
		assert.Empty(t, f.Error(), "untouched field %q must not report an error", initial)
	}
}

func TestValueSetTouches(t *testing.T) {
	f := NewValue("", NotEmpty)

	f.Set("")
	assert.True(t, f.Touched())
	assert.Equal(t, MsgRequired, f.Error())

	f.Set("hello")
	assert.Empty(t, f.Error())
	assert.Equal(t, "hello", f.Value())
}

func TestValueValidate(t *testing.T) {
	f := NewValue("", NotEmpty)
	assert.False(t, f.Validate())
	assert.True(t, f.Touched())
	assert.Equal(t, MsgRequired, f.Error())

	g := NewValue("ok", NotEmpty)
	assert.True(t, g.Validate())
	assert.True(t, g.Touched())
}

func TestValueResetTouched(t *testing.T) {
	f := NewValue("", NotEmpty)
	f.Validate()
	f.ResetTouched()
	assert.False(t, f.Touched())
	assert.Empty(t, f.Error())
}

func TestValidateAllTouchesEveryField(t *testing.T) {
	a := NewValue("", NotEmpty)
	b := NewValue("", NotEmpty)
	c := NewValue("fine", NotEmpty)

	assert.False(t, ValidateAll(a, b, c))
	assert.True(t, a.Touched())
	assert.True(t, b.Touched())
	assert.True(t, c.Touched())
}

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", MsgRequired},
		{"nope", MsgInvalidEmail},
		{"a@", MsgInvalidEmail},
		{"a@b", ""},
		{"@b", ""},
		{strings.Repeat("a", 127) + "@b", MsgInvalidEmail},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.in), tt.in)
	}
}

func TestPassword(t *testing.T) {
	assert.Equal(t, MsgPasswordTooShort, Password("12345"))
	assert.Empty(t, Password("123456"))
}

func TestPositiveInteger(t *testing.T) {
	tests := map[string]bool{
		"":    false,
		"0":   false,
		"-3":  false,
		"1.5": false,
		"abc": false,
		"1":   true,
		"250": true,
	}
	for in, valid := range tests {
		assert.Equal(t, valid, PositiveInteger(in) == "", in)
	}
}

func TestFutureDate(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	v := FutureDate(func() time.Time { return now })

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	assert.Equal(t, MsgDateRequired, v(nil))
	assert.Equal(t, MsgFutureDate, v(&past))
	assert.Equal(t, MsgFutureDate, v(&now))
	assert.Empty(t, v(&future))
}

func TestCategory(t *testing.T) {
	v := Category(func(id int) bool { return id == 2 })
	two, five := 2, 5
	assert.Equal(t, MsgCategoryRequired, v(nil))
	assert.Equal(t, MsgInvalidCategory, v(&five))
	assert.Empty(t, v(&two))
}

func TestPhotoRequired(t *testing.T) {
	assert.Equal(t, MsgPhotoRequired, PhotoRequired(nil))
	assert.Empty(t, PhotoRequired(&model.Photo{ContentType: "image/png"}))
}

func TestAll(t *testing.T) {
	v := All(NotEmpty, Password)

	assert.Equal(t, MsgRequired, v(""))
	assert.Equal(t, MsgPasswordTooShort, v("abc"))
	assert.Empty(t, v("abcdef"))
}
