package diagnosis

// Frequency band tables
//
// Static configuration shared by the extractors and the band analysis.
// Ranges are half-open [LowHz, HighHz); a bin at exactly HighHz belongs to
// the next band up.

import "math"

// FrequencyBand is a named half-open frequency range with a diagnostic role.
type FrequencyBand struct {
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	LowHz  float64 `json:"lowHz"`
	HighHz float64 `json:"highHz"`
}

// Contains reports whether the frequency falls inside the band.
func (b FrequencyBand) Contains(hz float64) bool {
	return hz >= b.LowHz && hz < b.HighHz
}

// compactBands are the five ratio bands of the compact feature vector.
var compactBands = [...]FrequencyBand{
	{Name: "low", Role: "base vibration", LowHz: 10, HighHz: 100},
	{Name: "compressor", Role: "compressor load", LowHz: 100, HighHz: 500},
	{Name: "motor", Role: "motor operation", LowHz: 500, HighHz: 1500},
	{Name: "fan", Role: "fan operation", LowHz: 1500, HighHz: 3000},
	{Name: "refrigerant", Role: "refrigerant flow", LowHz: 3000, HighHz: 8000},
}

// DiagnosticBands is the full named band table shown in analysis output.
var DiagnosticBands = []FrequencyBand{
	{Name: "low_freq", Role: "base vibration (10-100Hz)", LowHz: 10, HighHz: 100},
	{Name: "compressor_freq", Role: "compressor (100-500Hz)", LowHz: 100, HighHz: 500},
	{Name: "motor_freq", Role: "motor (500-1500Hz)", LowHz: 500, HighHz: 1500},
	{Name: "fan_freq", Role: "fan (1.5-3kHz)", LowHz: 1500, HighHz: 3000},
	{Name: "refrigerant_freq", Role: "refrigerant (3-8kHz)", LowHz: 3000, HighHz: 8000},
	{Name: "high_freq", Role: "high frequency (8-20kHz)", LowHz: 8000, HighHz: 20000},
}

// Refrigerant rule-path bands, matching the tuned thresholds in rules.go.
var (
	refrigerantLowBand  = FrequencyBand{Name: "compressor_load", Role: "compressor load band", LowHz: 20, HighHz: 200}
	refrigerantMidBand  = FrequencyBand{Name: "refrigerant_flow", Role: "refrigerant flow band", LowHz: 200, HighHz: 1500}
	refrigerantHighBand = FrequencyBand{Name: "system_stress", Role: "system stress band", LowHz: 1500, HighHz: 8000}
)

// BandEnergy summarises one band of a power spectrum.
type BandEnergy struct {
	Band         FrequencyBand `json:"band"`
	EnergyRatio  float64       `json:"energyRatio"`
	DominantFreq float64       `json:"dominantFreq"`
}

// VibrationStats are the time-domain indicators reported with a band analysis.
type VibrationStats struct {
	RMS         float64 `json:"rms"`
	Peak        float64 `json:"peak"`
	CrestFactor float64 `json:"crestFactor"`
}

// BandAnalysis is the per-band energy breakdown used by dashboards and reports.
type BandAnalysis struct {
	Bands     []BandEnergy   `json:"bands"`
	Vibration VibrationStats `json:"vibration"`
}

// AnalyzeBands computes per-band energy ratios and dominant frequencies over
// the positive-frequency power spectrum, plus time-domain vibration stats.
func AnalyzeBands(audio *AudioSample) (*BandAnalysis, error) {
	if err := audio.Validate(); err != nil {
		return nil, err
	}

	power, freqs := powerSpectrum(audio.Samples, audio.SampleRate)
	var totalEnergy float64
	for _, p := range power {
		totalEnergy += p
	}

	analysis := &BandAnalysis{Bands: make([]BandEnergy, 0, len(DiagnosticBands))}
	for _, band := range DiagnosticBands {
		entry := BandEnergy{Band: band}
		var bandEnergy, peakPower float64
		for i, f := range freqs {
			if !band.Contains(f) {
				continue
			}
			bandEnergy += power[i]
			if power[i] > peakPower {
				peakPower = power[i]
				entry.DominantFreq = f
			}
		}
		if totalEnergy > 0 {
			entry.EnergyRatio = bandEnergy / totalEnergy
		}
		analysis.Bands = append(analysis.Bands, entry)
	}

	rms := rootMeanSquare(audio.Samples)
	peak := peakAbs(audio.Samples)
	analysis.Vibration = VibrationStats{
		RMS:         rms,
		Peak:        peak,
		CrestFactor: crestFactor(peak, rms),
	}

	return analysis, nil
}

func crestFactor(peak, rms float64) float64 {
	if rms == 0 {
		return 0
	}
	return peak / rms
}

func peakAbs(samples []float64) float64 {
	var peak float64
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}
