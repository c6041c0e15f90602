package excite

const (
	// pluckAmplitude keeps a noise pluck clear of full scale.
	pluckAmplitude = 0.5

	// pcgStream derives the second PCG word from the seed.
	pcgStream = 0x9e3779b97f4a7c15

	readBufferSize = 4096
)
