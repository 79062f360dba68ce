package chat

import "testing"

func TestFormatWithSpeaker(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		speaker  string
		expected string
	}{
		{
			name:     "adds speaker prefix to plain message",
			message:  "I follow the creek north.",
			speaker:  "You",
			expected: "You: I follow the creek north.",
		},
		{
			name:     "preserves existing speaker prefix",
			message:  "Old Tom: Mind the laurel hells.",
			speaker:  "Narrator",
			expected: "Old Tom: Mind the laurel hells.",
		},
		{
			name:     "colon deep in a sentence is not a speaker",
			message:  "The blaze on the chestnut is plain to see from here: white paint.",
			speaker:  "Narrator",
			expected: "Narrator: The blaze on the chestnut is plain to see from here: white paint.",
		},
		{
			name:     "long phrase before colon is not a speaker",
			message:  "I tell the old man this: go home.",
			speaker:  "You",
			expected: "You: I tell the old man this: go home.",
		},
		{
			name:     "handles empty message",
			message:  "",
			speaker:  "Narrator",
			expected: "Narrator: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatWithSpeaker(tt.message, tt.speaker)
			if got != tt.expected {
				t.Errorf("FormatWithSpeaker(%q, %q) = %q, want %q", tt.message, tt.speaker, got, tt.expected)
			}
		})
	}
}
