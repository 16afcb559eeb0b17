package model

// Feature switch names used by the submission flow.
const (
	SwitchAndroidPackaged     = "android-packaged"
	SwitchDesktopPackaged     = "desktop-packaged"
	SwitchAllowPaidSubmission = "allow-paid-submission"
)

// Switch is a named feature switch. Rows override config defaults.
type Switch struct {
	Name   string `db:"name"`
	Active bool   `db:"active"`
	Note   string `db:"note"`
}
