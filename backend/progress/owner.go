package progress

import "fmt"

// Owner identifies who a progress record belongs to: an anonymous device
// before sign-in, or a user account after. A record always has exactly one.
type Owner struct {
	deviceID string
	userID   uint
}

func DeviceOwner(deviceID string) Owner {
	return Owner{deviceID: deviceID}
}

func UserOwner(userID uint) Owner {
	return Owner{userID: userID}
}

func (o Owner) IsUser() bool {
	return o.userID != 0
}

func (o Owner) DeviceID() string {
	return o.deviceID
}

func (o Owner) UserID() uint {
	return o.userID
}

func (o Owner) String() string {
	if o.IsUser() {
		return fmt.Sprintf("user:%d", o.userID)
	}
	return fmt.Sprintf("device:%s", o.deviceID)
}
