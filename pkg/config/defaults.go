package config

func pct(v float64) *float64 { return &v }

// Default returns the standard OnlyOne drop configuration.
// Canvas sizes are 12x16in and 3x14in at 300 DPI with a quarter-inch safe
// margin. Layout percentages match the brand's composition previews.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Main:   Template{Width: 3600, Height: 4800, DPI: 300, SafeMargin: 75},
			Sleeve: Template{Width: 900, Height: 4200, DPI: 300, SafeMargin: 75},
		},
		Layout: LayoutConfig{
			Front: FrontLayout{
				MainImage: Rule{WidthPercent: 45, TopPercent: pct(20)},
				Title:     Rule{WidthPercent: 60, TopPercent: pct(55)},
				Wordmark:  Rule{WidthPercent: 25, TopPercent: pct(75)},
			},
			Back: BackLayout{
				MainImage: Rule{WidthPercent: 80, TopPercent: pct(50)},
			},
			Sleeve: SleeveLayout{
				Logo: Rule{HeightPercent: 25, TopPercent: pct(50)},
			},
		},
		Colors: ColorConfig{
			Light: []string{
				"White", "Natural", "Sand", "Ash", "Sport Grey", "Cream",
				"Ivory", "Beige", "Yellow", "Light Pink", "Light Gray",
				"Light Grey", "Tan", "Khaki", "Silver",
			},
			Dark: []string{
				"Black", "Charcoal", "Navy", "Forest", "Maroon",
				"Dark Grey", "Dark Gray", "Midnight", "Heather",
			},
			DarkText:  "#111111",
			LightText: "#FFFFFF",
		},
		Font: FontConfig{
			Path:           "assets/fonts/Libre_Bodoni/static/LibreBodoni-Regular.ttf",
			Size:           180,
			Curve:          -0.60,
			Tracking:       0.05,
			VerticalOffset: 50,
		},
		Assets: AssetConfig{
			UpscaledDir:   "upscaled",
			TitlesDir:     "titles",
			ArtifactsDir:  "artifacts",
			WordmarkDark:  "assets/wordmarks/too_dark.png",
			WordmarkLight: "assets/wordmarks/too_light.png",
			LogoDark:      "assets/logos/logo_black.png",
			LogoLight:     "assets/logos/logo_white.png",
		},
		Image: ImageConfig{
			MinDPI:          300,
			MinDimension:    1024,
			MaxFileSize:     200 * 1024 * 1024,
			BorderThreshold: 2,
		},
		QA: QAConfig{
			MaxScalingPercent:  100,
			MinContrastRatio:   3.0,
			AlignmentTolerance: 2,
			MinQualityScore:    80,
		},
		Ledger: LedgerConfig{
			CSVPath: "onlyone_tracking.csv",
		},
		Printful: PrintfulConfig{
			BaseURL:   "https://api.printful.com",
			RateLimit: 120,
			RatePause: 115,
		},
		ImageHost: ImageHostConfig{
			BaseURL: "https://api.imgbb.com/1",
		},
		Business: BusinessConfig{
			Price: "35.00",
			Brand: "OnlyOne",
			Sizes: []string{"S", "M", "L", "XL", "XXL"},
			TitleTemplate: "OnlyOne — {title}",
			DescriptionTemplate: `OnlyOne — {title}

Un'opera unica, creata una sola volta.
Non appena diventa tua, sparisce per sempre dallo store.

Materiali premium, stampa di qualità museale.
Edizione limitata: solo 1 pezzo disponibile.

{title} è destinato a restare unico.
Solo chi lo sceglie entra nella storia di OnlyOne.

— The Only One —`,
		},
	}
}
