package campaign_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
)

func TestSequenceLibraryFor(t *testing.T) {
	lib := campaign.DefaultSequences()

	tests := map[string]struct {
		status campaign.ContactCallStatus
		wantID string // empty means no follow-up
	}{
		"ConnectedInterested":    {campaign.StatusConnectedInterested, "interested-welcome"},
		"CallbackRequested":      {campaign.StatusCallbackRequested, "callback-confirm"},
		"Voicemail":              {campaign.StatusVoicemail, "voicemail-follow-up"},
		"NoAnswer":               {campaign.StatusNoAnswer, "no-answer-follow-up"},
		"ConnectedNotInterested": {campaign.StatusConnectedNotInterested, ""},
		"WrongNumber":            {campaign.StatusWrongNumber, ""},
		"DoNotCall":              {campaign.StatusDoNotCall, ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			def, ok := lib.For(tc.status)
			if tc.wantID == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.wantID, def.ID)
		})
	}
}

func TestSequenceLibraryForEmptyDefinition(t *testing.T) {
	// A disposition whose sequence has no steps behaves like an unmapped one.
	var lib campaign.SequenceLibrary
	_, ok := lib.For(campaign.StatusVoicemail)
	assert.False(t, ok)
}

func TestDefaultSequenceDelays(t *testing.T) {
	lib := campaign.DefaultSequences()

	wantDelays := func(def campaign.SequenceDefinition, want []time.Duration) {
		t.Helper()
		require.Len(t, def.Steps, len(want))
		for i, d := range want {
			assert.Equal(t, d, def.Steps[i].Delay(), "%s step %d", def.ID, i)
		}
	}

	wantDelays(lib.Voicemail, []time.Duration{0, 2 * time.Hour, 24 * time.Hour})
	wantDelays(lib.NoAnswer, []time.Duration{0, 2 * time.Hour, 24 * time.Hour})
	wantDelays(lib.ConnectedInterested, []time.Duration{0, 24 * time.Hour})
	wantDelays(lib.CallbackRequested, []time.Duration{0})

	require.NoError(t, lib.Validate())
}

func TestSequenceLibraryValidate(t *testing.T) {
	lib := campaign.DefaultSequences()
	lib.Voicemail.Steps[1].DelayMs = -1
	assert.Error(t, lib.Validate())

	lib = campaign.DefaultSequences()
	lib.NoAnswer.Steps[0].Template = "   "
	assert.Error(t, lib.Validate())
}

func TestRenderTemplate(t *testing.T) {
	contact := campaign.Contact{ID: "c-42", AccountName: "Miller Farm", Phone: "+15551234567"}

	got := campaign.RenderTemplate("Hi {{contact.name}}, confirming {{contact.phone}} on file (ref {{contact.id}}).", contact)
	assert.Equal(t, "Hi Miller Farm, confirming +15551234567 on file (ref c-42).", got)

	// Unknown placeholders pass through untouched.
	got = campaign.RenderTemplate("Hello {{contact.email}}", contact)
	assert.Equal(t, "Hello {{contact.email}}", got)

	// Repeated placeholders are all substituted.
	got = campaign.RenderTemplate("{{contact.name}} / {{contact.name}}", contact)
	assert.Equal(t, "Miller Farm / Miller Farm", got)
}
