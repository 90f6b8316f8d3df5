package theme

// thRegisterBuiltins registers all built-in themes.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thLightTheme(),
		thGruvboxTheme(),
		thNordTheme(),
	} {
		Register(t)
	}
}

// thDefaultTheme returns the dark neutral theme with purple accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7C3AED",

		Border:      "#3e3e3e",
		BorderFocus: "#7C3AED",
		Title:       "#d4d4d4",

		StatusOK:    "#4ec970",
		StatusWarn:  "#e5c07b",
		StatusError: "#e06c75",

		GaugeFilled: "#4ec970",
		GaugeEmpty:  "#3e3e3e",
	}
}

// thLightTheme returns a palette readable on light backgrounds.
func thLightTheme() Theme {
	return Theme{
		Name:       "light",
		Foreground: "#24292f",
		Dim:        "#8c959f",
		Accent:     "#6639ba",

		Border:      "#d0d7de",
		BorderFocus: "#6639ba",
		Title:       "#24292f",

		StatusOK:    "#1a7f37",
		StatusWarn:  "#9a6700",
		StatusError: "#cf222e",

		GaugeFilled: "#1a7f37",
		GaugeEmpty:  "#d0d7de",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox theme.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		Border:      "#504945",
		BorderFocus: "#fe8019",
		Title:       "#ebdbb2",

		StatusOK:    "#b8bb26",
		StatusWarn:  "#fabd2f",
		StatusError: "#fb4934",

		GaugeFilled: "#b8bb26",
		GaugeEmpty:  "#504945",
	}
}

// thNordTheme returns the arctic blue Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		BorderFocus: "#88c0d0",
		Title:       "#eceff4",

		StatusOK:    "#a3be8c",
		StatusWarn:  "#ebcb8b",
		StatusError: "#bf616a",

		GaugeFilled: "#a3be8c",
		GaugeEmpty:  "#3b4252",
	}
}
