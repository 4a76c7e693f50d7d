package monitor

import (
	"fmt"

	"codeberg.org/mutker/screenwell/internal/ladder"
)

var (
	distanceAlert = Alert{"Distance Alert", "You are too close! Move back a bit."}
	tensionAlert  = Alert{"Tension Alert", "You are too focused! Relax your face first."}
	breakAlert    = Alert{"Look at something 20 feet away", "Time for a 20-second eye break!"}

	distanceUncalibrated = Alert{"Error: Distance Check", "Please calibrate your healthy distance first"}
	distanceNoAsset      = Alert{"Error: Distance Check", "Calibration image not found. Please provide the image to continue."}
	tensionUncalibrated  = Alert{"Error: Eye Strain Prevention", "Please provide your relaxed image first"}
	tensionNoAsset       = Alert{"Error: Eye Strain Prevention", "Relaxed image not found. Please provide the image to continue."}

	cameraUnavailable = Alert{"Error: Camera Error", "Couldn't open the camera."}

	calibrateNoFace    = Alert{"Error: Face Detection", "No face detected in calibration image"}
	calibrateManyFaces = Alert{"Error: Face Detection", "Multiple faces detected. Please ensure only your face is visible"}
	calibrateNoEyes    = Alert{"Error: Eyes Detection", "Please ensure both eyes are visible"}
	calibrateManyEyes  = Alert{"Error: Eyes Detection", "Please ensure only your eyes are visible"}

	dailyReached = Alert{"Daily Limit Reached", "You've reached your daily screen time limit! Time to take a break."}
)

// lossTexts are the detection-loss notifications of a camera monitor.
type lossTexts struct {
	absent  Alert
	crowded Alert
}

var (
	faceLoss = lossTexts{
		absent:  Alert{"Error: Face Detection", "Please ensure your face is visible in the camera."},
		crowded: Alert{"Error: Face Detection", "Please ensure only your face is visible in the camera."},
	}
	eyesLoss = lossTexts{
		absent:  Alert{"Error: Eyes Detection", "Please ensure your eyes are visible in the camera."},
		crowded: Alert{"Error: Eyes Detection", "Please ensure only your eyes are visible in the camera."},
	}
)

func dailyRemaining(remaining int64) Alert {
	return Alert{
		Title:   "Screen Time Alert",
		Message: fmt.Sprintf("You have %s of screen time left today", ladder.Format(remaining, ladder.Daily)),
	}
}

func dailyOver(minutes int) Alert {
	return Alert{
		Title:   "Over Daily Limit",
		Message: fmt.Sprintf("You're %d minute(s) over your daily limit! Please shut down soon.", minutes),
	}
}

func bedtimeReminder(minutes int) Alert {
	return Alert{
		Title:   "Bedtime Reminder",
		Message: fmt.Sprintf("It's %d minute(s) until your bedtime. Start wrapping up!", minutes),
	}
}

func bedtimeReached(bedtime ladder.TimeOfDay) Alert {
	return Alert{
		Title:   "Bedtime!",
		Message: fmt.Sprintf("It's %s! Time to get off the computer and rest.", bedtime),
	}
}

func bedtimePast(minutes int) Alert {
	return Alert{
		Title:   "Past Bedtime!",
		Message: fmt.Sprintf("You're %d minute(s) past bedtime! Please shut down soon.", minutes),
	}
}

func blueLightActive(period Period, percent int) Alert {
	return Alert{
		Title:   "Blue Light Filter",
		Message: fmt.Sprintf("%s mode is active: %d%%", period.Label(), percent),
	}
}
