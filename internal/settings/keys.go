// Package settings reads and writes the user's settings document:
// calibration baselines, limits and per-feature switches.
package settings

// Feature names; each has a "<feature>_enable" switch.
const (
	FeatureDistance   = "distance_check"
	FeatureEyeStrain  = "eye_strain_prevention"
	FeatureNightLimit = "night_limit"
	FeatureDailyLimit = "daily_limit"
	FeatureBreaks     = "break_reminders"
	FeatureBlueLight  = "blue_light_filter"
)

const (
	KeyDistanceArea    = "distance_check_area"
	KeyTensionRatios   = "eye_strain_prevention_ratios"
	KeyNightLimitTime  = "night_limit_time"
	KeyDailyLimitTime  = "daily_limit_time"
	KeyBlueLightDay    = "blue_light_filter_day"
	KeyBlueLightEve    = "blue_light_filter_evening"
	KeyBlueLightNight  = "blue_light_filter_night"
	enableSuffix       = "_enable"
	blueLightKeyPrefix = "blue_light_filter_"
)

// Calibration images expected next to the settings file.
const (
	DistanceCalibrationImage = "calibrate_distance.png"
	TensionCalibrationImage  = "relaxed_face.png"
)

// Defaults is the document written when no settings file exists.
func Defaults() map[string]any {
	return map[string]any{
		FeatureEyeStrain + enableSuffix:  false,
		KeyTensionRatios:                 []float64{},
		FeatureDistance + enableSuffix:   false,
		KeyDistanceArea:                  0,
		FeatureNightLimit + enableSuffix: false,
		KeyNightLimitTime:                "22:00",
		FeatureDailyLimit + enableSuffix: false,
		KeyDailyLimitTime:                "04:00",
		FeatureBreaks + enableSuffix:     false,
		FeatureBlueLight + enableSuffix:  false,
		KeyBlueLightDay:                  0,
		KeyBlueLightEve:                  0,
		KeyBlueLightNight:                0,
	}
}

// EnableKey returns the switch key of a feature.
func EnableKey(feature string) string {
	return feature + enableSuffix
}

// BlueLightKey returns the percentage key of a light period.
func BlueLightKey(period string) string {
	return blueLightKeyPrefix + period
}
