package model

// DeviceType identifies a device class a listing can target.
type DeviceType int

const (
	DeviceDesktop DeviceType = 1
	DeviceMobile  DeviceType = 2
	DeviceTablet  DeviceType = 3
	DeviceGaia    DeviceType = 4
)

var deviceNames = map[DeviceType]string{
	DeviceDesktop: "Desktop",
	DeviceMobile:  "Android Mobile",
	DeviceTablet:  "Android Tablet",
	DeviceGaia:    "Firefox OS",
}

// DevicePlatforms maps platform tokens (the part after the free-/paid- prefix)
// to device types.
var DevicePlatforms = map[string]DeviceType{
	"firefoxos":      DeviceGaia,
	"desktop":        DeviceDesktop,
	"android-mobile": DeviceMobile,
	"android-tablet": DeviceTablet,
}

func (d DeviceType) Name() string {
	return deviceNames[d]
}

func (d DeviceType) Valid() bool {
	_, ok := deviceNames[d]
	return ok
}

// ListingDevice is a device-type association row for a listing.
type ListingDevice struct {
	ListingID  string     `db:"listing_id"`
	DeviceType DeviceType `db:"device_type"`
}
