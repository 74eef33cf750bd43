package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	production := date(2024, time.January, 1)

	tests := []struct {
		name              string
		shelfLifeDays     int
		reminderDays      int
		now               time.Time
		expectedExpiry    time.Time
		expectedRemaining int
		expectedStatus    Status
	}{
		{
			name:              "Normal well before reminder window",
			shelfLifeDays:     10,
			reminderDays:      3,
			now:               date(2024, time.January, 2),
			expectedExpiry:    date(2024, time.January, 11),
			expectedRemaining: 9,
			expectedStatus:    StatusNormal,
		},
		{
			name:              "Warning inside reminder window",
			shelfLifeDays:     10,
			reminderDays:      3,
			now:               date(2024, time.January, 9),
			expectedExpiry:    date(2024, time.January, 11),
			expectedRemaining: 2,
			expectedStatus:    StatusWarning,
		},
		{
			name:              "Expired after expiry date",
			shelfLifeDays:     10,
			reminderDays:      3,
			now:               date(2024, time.January, 12),
			expectedExpiry:    date(2024, time.January, 11),
			expectedRemaining: -1,
			expectedStatus:    StatusExpired,
		},
		{
			name:              "Expired exactly on expiry date",
			shelfLifeDays:     10,
			reminderDays:      3,
			now:               date(2024, time.January, 11),
			expectedExpiry:    date(2024, time.January, 11),
			expectedRemaining: 0,
			expectedStatus:    StatusExpired,
		},
		{
			name:              "Warning boundary at exactly reminderDays remaining",
			shelfLifeDays:     10,
			reminderDays:      3,
			now:               date(2024, time.January, 8),
			expectedExpiry:    date(2024, time.January, 11),
			expectedRemaining: 3,
			expectedStatus:    StatusWarning,
		},
		{
			name:              "Zero shelf life expired from production instant",
			shelfLifeDays:     0,
			reminderDays:      3,
			now:               date(2024, time.January, 1),
			expectedExpiry:    date(2024, time.January, 1),
			expectedRemaining: 0,
			expectedStatus:    StatusExpired,
		},
		{
			name:              "Zero reminder days never warns",
			shelfLifeDays:     5,
			reminderDays:      0,
			now:               date(2024, time.January, 5),
			expectedExpiry:    date(2024, time.January, 6),
			expectedRemaining: 1,
			expectedStatus:    StatusNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(production, tt.shelfLifeDays, tt.reminderDays, tt.now)

			assert.Equal(t, tt.expectedExpiry, result.ExpiryDate)
			assert.Equal(t, tt.expectedRemaining, result.RemainingDays)
			assert.Equal(t, tt.expectedStatus, result.Status)
		})
	}
}

func TestClassify_TimeOfDayIgnored(t *testing.T) {
	production := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, time.January, 2, 0, 1, 0, 0, time.UTC)

	result := Classify(production, 10, 3, now)

	assert.Equal(t, date(2024, time.January, 11), result.ExpiryDate)
	assert.Equal(t, 9, result.RemainingDays)
	assert.Equal(t, StatusNormal, result.Status)
}

func TestClassify_ExpiredIffRemainingNonPositive(t *testing.T) {
	production := date(2024, time.March, 15)

	for shelf := 0; shelf <= 20; shelf++ {
		for offset := 0; offset <= 25; offset++ {
			now := production.AddDate(0, 0, offset)
			result := Classify(production, shelf, 3, now)

			expired := result.Status == StatusExpired
			assert.Equal(t, result.RemainingDays <= 0, expired,
				"shelf=%d offset=%d remaining=%d status=%s", shelf, offset, result.RemainingDays, result.Status)
		}
	}
}

func TestParseStatusSet(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []Status
		expectError bool
	}{
		{
			name:     "Empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "Single status",
			input:    "EXPIRED",
			expected: []Status{StatusExpired},
		},
		{
			name:     "Multiple with whitespace and lowercase",
			input:    " normal, Warning ",
			expected: []Status{StatusNormal, StatusWarning},
		},
		{
			name:        "Unknown code",
			input:       "NORMAL,STALE",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statuses, err := ParseStatusSet(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, statuses)
		})
	}
}
