package gazebo

// BuildConfig returns the package manifest pointing at sdfFilename.
func BuildConfig(name, sdfFilename, author string) ModelConfig {
	return ModelConfig{
		Name:    name,
		Version: ConfigVersion,
		SDF:     ConfigSDF{Version: SchemaVersion, Filename: sdfFilename},
		Author:  Author{Name: author},
	}
}
