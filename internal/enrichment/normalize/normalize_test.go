package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"heirfinder/internal/enrichment/models"
)

func TestEmail(t *testing.T) {
	cases := map[string]string{
		" Jane.Doe@Example.COM ": "jane.doe@example.com",
		"mailto:a@b.io":          "a@b.io",
		"not-an-email":           "",
		"a@b":                    "",
		"@example.com":           "",
		"a@@b.com":               "",
		"a b@example.com":        "",
		"":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Email(in), in)
	}
}

func TestPhone(t *testing.T) {
	cases := map[string]string{
		"(512) 555-0100":    "+15125550100",
		"512.555.0100":      "+15125550100",
		"1-512-555-0100":    "+15125550100",
		"+44 20 7946 0958":  "+442079460958",
		"512-555-0100 x204": "+15125550100",
		"+1 (512) 555-0100": "+15125550100",
		"555-0100":          "",
		"":                  "",
		"not a phone":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Phone(in), in)
	}
}

func TestContact(t *testing.T) {
	got := Contact(models.CanonicalContact{
		VerifiedEmail: "JANE@WORK.COM",
		PersonalEmail: "bogus",
		MobilePhone:   "512 555 0100",
	})
	assert.Equal(t, models.CanonicalContact{
		VerifiedEmail: "jane@work.com",
		MobilePhone:   "+15125550100",
	}, got)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b@c.io", FirstNonEmpty(Email, "", "junk", "B@C.io", "d@e.io"))
	assert.Equal(t, "", FirstNonEmpty(Phone))
}

func TestNameAndAddressKeys(t *testing.T) {
	assert.Equal(t, "robert obrien", Name("Robert O'Brien Jr."))
	assert.Equal(t, Name("MARY-ANN SMITH"), Name("Mary Ann Smith"))

	assert.Equal(t, "12 n main st apt 4", Address("12 North Main Street, Apt. 4"))
	assert.Equal(t, Address("12 N. Main St #4"), "12 n main st 4")

	assert.Equal(t, Key("Robert O'Brien", "12 Main Street"), Key("robert obrien", "12 main st"))
	assert.NotEqual(t, Key("Robert OBrien", "12 Main St"), Key("Robert OBrien", "14 Main St"))
}

func TestCounty(t *testing.T) {
	assert.Equal(t, "travis", County("Travis County"))
	assert.True(t, SameCounty("Travis County", "travis"))
	assert.False(t, SameCounty("", ""))
	assert.False(t, SameCounty("Travis", "Hays"))
	assert.Equal(t, "orleans", County("Orleans Parish"))
}
