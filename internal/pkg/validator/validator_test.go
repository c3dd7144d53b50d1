package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidLatitudeLongitude(t *testing.T) {
	if !IsValidLatitude(-6.2) || !IsValidLatitude(90) || !IsValidLatitude(-90) {
		t.Error("expected valid latitudes to pass")
	}
	if IsValidLatitude(90.01) || IsValidLatitude(-91) {
		t.Error("expected out-of-range latitudes to fail")
	}
	if !IsValidLongitude(106.8) || !IsValidLongitude(180) || !IsValidLongitude(-180) {
		t.Error("expected valid longitudes to pass")
	}
	if IsValidLongitude(180.5) || IsValidLongitude(-181) {
		t.Error("expected out-of-range longitudes to fail")
	}
}

func TestIsValidSiteCode(t *testing.T) {
	valid := []string{"SITE-A", "JKT-01", "B2", "TOWER-NORTH-7"}
	invalid := []string{"", "a-site", "-SITE", "S", "SITE_A", "SITE A"}
	for _, code := range valid {
		if !IsValidSiteCode(code) {
			t.Errorf("IsValidSiteCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidSiteCode(code) {
			t.Errorf("IsValidSiteCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"2024-0001", "0001-9999"}
	invalid := []string{"20240001", "2024-001", "abcd-0001", ""}
	for _, code := range valid {
		if !IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", code)
		}
	}
}
