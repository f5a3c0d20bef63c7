package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "coach@matclub.io", wantErr: false},
		{name: "subdomain", email: "admin@mail.matclub.io", wantErr: false},
		{name: "plus tag", email: "m+gym@example.com", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing domain", email: "coach@", wantErr: true},
		{name: "missing at", email: "coach.matclub.io", wantErr: true},
		{name: "whitespace only", email: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "long enough", password: "eight-ch", wantErr: false},
		{name: "too short", password: "short", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "morning", value: "09:30", wantErr: false},
		{name: "midnight", value: "00:00", wantErr: false},
		{name: "last minute", value: "23:59", wantErr: false},
		{name: "hour out of range", value: "24:00", wantErr: true},
		{name: "minute out of range", value: "10:60", wantErr: true},
		{name: "missing padding", value: "9:30", wantErr: true},
		{name: "not a time", value: "evening", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeOfDay("start_time", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeOfDay(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDayOfWeek(t *testing.T) {
	for day := 0; day <= 6; day++ {
		if err := ValidateDayOfWeek(day); err != nil {
			t.Errorf("ValidateDayOfWeek(%d) unexpected error: %v", day, err)
		}
	}
	for _, day := range []int{-1, 7, 100} {
		if err := ValidateDayOfWeek(day); err == nil {
			t.Errorf("ValidateDayOfWeek(%d) expected error", day)
		}
	}
}

func TestValidateDateOfBirth(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantNil bool
		wantErr bool
	}{
		{name: "valid date", value: "2010-06-15", wantNil: false, wantErr: false},
		{name: "empty is allowed", value: "", wantNil: true, wantErr: false},
		{name: "future date", value: "2999-01-01", wantErr: true},
		{name: "bad format", value: "15/06/2010", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ValidateDateOfBirth(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDateOfBirth(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err == nil && (parsed == nil) != tt.wantNil {
				t.Errorf("ValidateDateOfBirth(%q) parsed = %v, wantNil %v", tt.value, parsed, tt.wantNil)
			}
		})
	}
}
