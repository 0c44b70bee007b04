package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"meetroom/shared/cache"
	"meetroom/shared/constant"
	"meetroom/shared/dto"
	"meetroom/shared/failure"
	"meetroom/shared/timezone"

	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero fields of a struct into a map of
// updated columns, stamping modified_at/modified_by.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins a prefix and key parts with ':'.
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a deterministic cache key from the query
// params and filter applied to a listing endpoint.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	encodedArgs, err := json.Marshal(args)
	if err != nil {
		encodedArgs = []byte(constant.Empty)
	}

	return fmt.Sprintf("%s:%d:%d:%s:%s:%s:%s", prefix, params.Page, params.Limit, params.SortBy, params.SortDir, where, encodedArgs)
}

// InvalidateCaches clears every cache entry under the given prefix. Errors are
// logged only; cache invalidation never fails a mutation.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// ParseDateRange resolves start_date/end_date calendar-date query values into
// a half-open [start, end) window in the application timezone. A missing
// end_date defaults the window to the following 7 days; a supplied end_date is
// inclusive as a calendar day, so the upper bound is the following midnight.
func ParseDateRange(startDateStr, endDateStr string) (time.Time, time.Time, error) {
	if startDateStr == "" {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("start_date is required for date range query") //nolint:wrapcheck
	}

	startDate, err := timezone.Parse(constant.CalendarDateFormat, startDateStr)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("start_date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	if endDateStr == "" {
		return startDate, startDate.AddDate(0, 0, constant.DefaultDateRangeDays), nil
	}

	endDate, err := timezone.Parse(constant.CalendarDateFormat, endDateStr)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("end_date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	endDate = endDate.AddDate(0, 0, 1)

	if !endDate.After(startDate) {
		return time.Time{}, time.Time{}, failure.BadRequestFromString("end_date must not precede start_date") //nolint:wrapcheck
	}

	return startDate, endDate, nil
}
