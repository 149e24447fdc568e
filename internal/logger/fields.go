package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/matching"
)

const (
	FieldListingID  = "listing_id"
	FieldCompany    = "company"
	FieldMatchScore = "match_score"
	FieldSessionID  = "session_id"
	FieldSkills     = "profile_skills"
	FieldSectors    = "profile_sectors"
	FieldLocation   = "profile_location"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ListingFields describes a listing for log entries.
func ListingFields(listing matching.Listing) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldListingID, Value: listing.ID},
		StringField{Key: FieldCompany, Value: listing.Company},
	)
	return append(fields, zap.Int(FieldMatchScore, listing.BaseScore))
}

// ProfileFields describes the matching-relevant part of a profile. Personal fields are
// left out on purpose.
func ProfileFields(profile matching.Profile) []zap.Field {
	fields := []zap.Field{
		zap.Strings(FieldSkills, profile.Skills),
		zap.Strings(FieldSectors, profile.Sectors),
	}
	return append(fields, StringFields(StringField{Key: FieldLocation, Value: profile.Location})...)
}
