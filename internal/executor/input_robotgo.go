package executor

import (
	"os"
	"runtime"

	"github.com/go-vgo/robotgo"
)

// RobotInput implements Input on robotgo.
type RobotInput struct{}

// NewRobotInput returns the real input driver.
func NewRobotInput() RobotInput { return RobotInput{} }

// Available probes whether input injection can reach a display server.
// On Linux a missing DISPLAY/WAYLAND_DISPLAY means injection cannot work.
func (RobotInput) Available() bool {
	if runtime.GOOS == "linux" {
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
	return true
}

func (RobotInput) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}

func (RobotInput) MousePosition() (int, int) {
	return robotgo.Location()
}

func (RobotInput) Move(x, y int, duration float64) {
	if duration > 0 {
		robotgo.MoveSmooth(x, y)
		return
	}
	robotgo.Move(x, y)
}

func (RobotInput) Click(x, y int, button string, clicks int) error {
	robotgo.Move(x, y)
	for i := 0; i < clicks; i++ {
		robotgo.Click(button, false)
	}
	return nil
}

func (RobotInput) TypeChar(ch rune) error {
	robotgo.TypeStr(string(ch))
	return nil
}

func (RobotInput) KeyTap(key string, modifiers ...string) error {
	args := make([]interface{}, len(modifiers))
	for i, mod := range modifiers {
		args[i] = mod
	}
	return robotgo.KeyTap(key, args...)
}

func (RobotInput) Scroll(amount int, x, y *int) error {
	if x != nil && y != nil {
		robotgo.Move(*x, *y)
	}
	robotgo.Scroll(0, amount)
	return nil
}
