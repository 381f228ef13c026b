// Package timeconv converts instrument day-count timestamps between the
// Matlab datenum epoch (00-Jan-0000) and the Unix epoch (01-Jan-1970).
package timeconv

import "time"

// MatlabEpochOffsetDays is the Matlab datenum value of 01-Jan-1970.
const MatlabEpochOffsetDays = 719529.0

const secondsPerDay = 86400.0

// MatToEpochDays converts a Matlab day count to days since the Unix epoch.
func MatToEpochDays(mattime float64) float64 {
	return mattime - MatlabEpochOffsetDays
}

// EpochToMatDays converts days since the Unix epoch to a Matlab day count.
func EpochToMatDays(epochDays float64) float64 {
	return epochDays + MatlabEpochOffsetDays
}

// EpochDaysToTime converts days since the Unix epoch to a UTC time.
func EpochDaysToTime(epochDays float64) time.Time {
	sec := epochDays * secondsPerDay
	whole := int64(sec)
	nsec := int64((sec - float64(whole)) * 1e9)
	return time.Unix(whole, nsec).UTC()
}

// MatToTime converts a Matlab day count directly to a UTC time.
func MatToTime(mattime float64) time.Time {
	return EpochDaysToTime(MatToEpochDays(mattime))
}
