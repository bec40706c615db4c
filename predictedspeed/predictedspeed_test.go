package predictedspeed

import (
	"math"
	"testing"
)

func constantSpeeds(kph float32) *[BucketsPerWeek]float32 {
	var s [BucketsPerWeek]float32
	for i := range s {
		s[i] = kph
	}
	return &s
}

func TestRoundTripConstantSignal(t *testing.T) {
	const kph = 65.0
	speeds := constantSpeeds(kph)
	coeffs := CompressSpeedBuckets(speeds)

	var maxAbsErr float64
	for b := 0; b < BucketsPerWeek; b++ {
		got := DecompressSpeedBucket(&coeffs, b)
		diff := math.Abs(float64(got) - kph)
		if diff > maxAbsErr {
			maxAbsErr = diff
		}
	}
	if maxAbsErr > 2.0 {
		t.Errorf("max abs error %v exceeds tolerance for a constant signal", maxAbsErr)
	}
}

func TestRoundTripSmoothSignal(t *testing.T) {
	var speeds [BucketsPerWeek]float32
	for i := range speeds {
		// A smooth daily cycle: low overnight, high at midday.
		phase := 2 * math.Pi * float64(i) / (24 * 60 / BucketSizeMinutes)
		speeds[i] = float32(50 + 20*math.Sin(phase))
	}
	coeffs := CompressSpeedBuckets(&speeds)

	var sumAbsErr, maxAbsErr float64
	for b := range speeds {
		got := DecompressSpeedBucket(&coeffs, b)
		diff := math.Abs(float64(got) - float64(speeds[b]))
		sumAbsErr += diff
		if diff > maxAbsErr {
			maxAbsErr = diff
		}
	}
	meanAbsErr := sumAbsErr / float64(BucketsPerWeek)
	if meanAbsErr > 1.0 {
		t.Errorf("mean abs error %v exceeds 1 kph tolerance", meanAbsErr)
	}
	if maxAbsErr > 2.0 {
		t.Errorf("max abs error %v exceeds 2 kph tolerance", maxAbsErr)
	}
}

func TestNonNegativeInputsReconstructAboveFloor(t *testing.T) {
	speeds := constantSpeeds(10)
	coeffs := CompressSpeedBuckets(speeds)
	for b := 0; b < BucketsPerWeek; b++ {
		got := DecompressSpeedBucket(&coeffs, b)
		if got < -0.5 {
			t.Fatalf("bucket %d reconstructed to %v, below -0.5 floor", b, got)
		}
	}
}

func TestEncodeDecodeCompressedSpeedsRoundTrip(t *testing.T) {
	speeds := constantSpeeds(42)
	coeffs := CompressSpeedBuckets(speeds)
	encoded := EncodeCompressedSpeeds(&coeffs)
	decoded, err := DecodeCompressedSpeeds(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if *decoded != coeffs {
		t.Error("decoded coefficients do not match original")
	}
}

func TestDecodeCompressedSpeedsRejectsWrongLength(t *testing.T) {
	if _, err := DecodeCompressedSpeeds("AAAA"); err == nil {
		t.Error("expected error for undersized payload")
	}
}

func TestBucketForSecondsFromStartOfWeek(t *testing.T) {
	if b, ok := BucketForSecondsFromStartOfWeek(0); !ok || b != 0 {
		t.Errorf("expected bucket 0, got %d ok=%v", b, ok)
	}
	if _, ok := BucketForSecondsFromStartOfWeek(7 * 24 * 60 * 60); ok {
		t.Error("expected out-of-range for a full week of seconds")
	}
}

func TestProfilesSpeedOutOfRange(t *testing.T) {
	p := Profiles{Offsets: []uint32{0}, Profiles: make([]int16, CoefficientCount)}
	if _, ok := p.Speed(5, 0); ok {
		t.Error("expected ok=false for out-of-range edge index")
	}
	if _, ok := p.Speed(0, 7*24*60*60); ok {
		t.Error("expected ok=false for out-of-range time")
	}
}
