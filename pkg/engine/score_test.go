package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketFromNACE(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"96.021", "beauty"},
		{"96,022", "beauty"},
		{" 96.02 ", "beauty"},
		{"96.09", "other"},
		{"56101", "horeca"},
		{"56.301", "horeca"},
		{"86.210", "health"},
		{"47.110", "retail"},
		{"43.320", "service_trades"},
		{"81.210", "service_trades"},
		{"95.110", "service_trades"},
		{"62.010", "other"},
		{"", "other"},
		{"   ", "other"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BucketFromNACE(tc.code), "BucketFromNACE(%q)", tc.code)
	}
}

func TestNormalizeNACECode(t *testing.T) {
	assert.Equal(t, "96.021", NormalizeNACECode(" 96,021 "))
	assert.Equal(t, "56101", NormalizeNACECode("56101"))
	assert.Equal(t, "", NormalizeNACECode("  "))
}

func TestEnsureBucket(t *testing.T) {
	assert.Equal(t, "beauty", EnsureBucket(" Beauty "))
	assert.Equal(t, "service_trades", EnsureBucket("service_trades"))
	assert.Equal(t, "other", EnsureBucket("finance"))
	assert.Equal(t, "other", EnsureBucket(""))
}

func intp(v int) *int { return &v }

func TestScoreRecord(t *testing.T) {
	cases := []struct {
		name        string
		age         *int
		bucket      string
		hasNace     bool
		hasPhone    bool
		hasEmail    bool
		hasWebsite  bool
		wantScore   int
		wantReasons string
	}{
		{
			name: "young beauty with phone",
			age:  intp(1), bucket: "beauty", hasNace: true, hasPhone: true,
			wantScore: 50, wantReasons: "new<18m|sector_high|has_phone",
		},
		{
			name: "all channels",
			age:  intp(6), bucket: "horeca", hasNace: true,
			hasPhone: true, hasEmail: true, hasWebsite: true,
			wantScore: 53, wantReasons: "new<18m|sector_high|has_phone|has_email|has_website",
		},
		{
			name: "age at bound counts as new",
			age:  intp(18), bucket: "retail", hasNace: true,
			wantScore: 30, wantReasons: "new<18m",
		},
		{
			name: "too old retail",
			age:  intp(19), bucket: "retail", hasNace: true,
			wantScore: 0, wantReasons: "",
		},
		{
			name:      "unknown age",
			age:       nil,
			bucket:    "beauty",
			hasNace:   true,
			wantScore: 15, wantReasons: "sector_high",
		},
		{
			name: "missing nace clamps at zero",
			age:  intp(30), bucket: "other",
			wantScore: 0, wantReasons: "no_nace",
		},
		{
			name: "website alone adds nothing",
			age:  intp(30), bucket: "other", hasNace: true, hasWebsite: true,
			wantScore: 0, wantReasons: "has_website",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, reasons := ScoreRecord(tc.age, tc.bucket, tc.hasNace, tc.hasPhone, tc.hasEmail, tc.hasWebsite, 18)
			assert.Equal(t, tc.wantScore, score)
			assert.Equal(t, tc.wantReasons, reasons)
		})
	}
}

func TestScoreRecordIsPure(t *testing.T) {
	age := intp(2)
	s1, r1 := ScoreRecord(age, "beauty", true, true, true, false, 18)
	s2, r2 := ScoreRecord(age, "beauty", true, true, true, false, 18)
	assert.Equal(t, s1, s2)
	assert.Equal(t, r1, r2)
}

func TestScoreRecordReasonUsesConfiguredBound(t *testing.T) {
	_, reasons := ScoreRecord(intp(3), "other", true, false, false, false, 6)
	assert.Equal(t, "new<6m", reasons)
}
