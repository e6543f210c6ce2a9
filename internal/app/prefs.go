package app

import "sidequest/internal/prefs"

// Preferences returns the display preference and the generator theme the
// generators will fall back to.
func (a *App) Preferences() prefs.Prefs {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.prefs.Get()
	if a.set != nil {
		p.GeneratorTheme = a.prefs.GeneratorTheme(a.set.Themes())
	}
	return p
}

func (a *App) ToggleDisplay() (prefs.Display, error) {
	d, err := a.prefs.ToggleDisplay()
	if err != nil {
		return d, a.fail("toggle display", err)
	}
	return d, nil
}

// SetGeneratorTheme saves theme as the default for generation. It must be a
// loaded quest theme.
func (a *App) SetGeneratorTheme(theme string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var available []string
	if a.set != nil {
		available = a.set.Themes()
	}
	if err := a.prefs.SetGeneratorTheme(theme, available); err != nil {
		return a.fail("set generator theme", err)
	}
	return nil
}
