package out

import "strings"

var defaultSystemPackages = []string{
	"gnome-shell",
	"plasmashell",
	"kwin_x11",
	"xfdesktop",
	"xfce4-panel",
	"Xorg",
	"systemd",
	"polkit-gnome-au",
	"notify-osd",
}

// StaticClassifier treats desktop shell processes and a user supplied
// trusted list as system packages.
type StaticClassifier struct {
	names map[string]struct{}
}

func NewStaticClassifier(trusted []string) *StaticClassifier {
	c := &StaticClassifier{names: make(map[string]struct{}, len(defaultSystemPackages)+len(trusted))}
	for _, name := range defaultSystemPackages {
		c.names[strings.ToLower(name)] = struct{}{}
	}
	for _, name := range trusted {
		if name = strings.TrimSpace(name); name != "" {
			c.names[strings.ToLower(name)] = struct{}{}
		}
	}
	return c
}

func (c *StaticClassifier) IsSystemPackage(name string) bool {
	_, ok := c.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
