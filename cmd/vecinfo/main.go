// Command vecinfo inspects the growth behavior of the vec container.
//
// Usage:
//
//	vecinfo [flags]
//
// The default mode appends elements one by one and prints a table of
// every capacity step, showing the 1-then-double growth sequence and
// the reallocations it causes. With -reserve the capacity is reserved
// up front, demonstrating the zero-reallocation append path.
//
// The -spectrum mode streams a sine into a Vector[float64] used as a
// growing sample accumulator, windows the accumulated block in place
// and reports the spectral peak.
//
// Examples:
//
//	vecinfo -n 1000
//	vecinfo -n 1000 -reserve 1000
//	vecinfo -spectrum -freq 1000 -rate 48000 -size 4800
package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"text/tabwriter"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vec/vec"
)

func main() {
	n := flag.Int("n", 100, "number of elements to append")
	reserve := flag.Int("reserve", 0, "capacity to reserve before appending")
	spectrum := flag.Bool("spectrum", false, "run the sample-accumulator spectrum demo")
	freq := flag.Float64("freq", 1000, "sine frequency in Hz (spectrum mode)")
	rate := flag.Float64("rate", 48000, "sample rate in Hz (spectrum mode)")
	size := flag.Int("size", 4800, "number of samples to accumulate (spectrum mode)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vecinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Inspects growth behavior of the vec container.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vecinfo -n 1000\n")
		fmt.Fprintf(os.Stderr, "  vecinfo -n 1000 -reserve 1000\n")
		fmt.Fprintf(os.Stderr, "  vecinfo -spectrum -freq 440 -rate 44100 -size 8192\n")
	}
	flag.Parse()

	if *spectrum {
		if err := runSpectrum(*freq, *rate, *size); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runGrowthTrace(*n, *reserve); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// growthStep records one capacity change observed while appending.
type growthStep struct {
	length   int // length at which the change happened
	capacity int
}

func runGrowthTrace(n, reserve int) error {
	if n < 0 || reserve < 0 {
		return fmt.Errorf("element and reserve counts must not be negative")
	}

	v := vec.New[int]()
	if reserve > 0 {
		if err := v.Reserve(reserve); err != nil {
			return err
		}
	}

	var steps []growthStep
	lastCap := v.Cap()
	for i := 0; i < n; i++ {
		if err := v.Append(i); err != nil {
			return err
		}
		if v.Cap() != lastCap {
			lastCap = v.Cap()
			steps = append(steps, growthStep{length: v.Len(), capacity: v.Cap()})
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Realloc\tAt Length\tNew Capacity\n")
	fmt.Fprintf(tw, "-------\t---------\t------------\n")
	for i, s := range steps {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", i+1, s.length, s.capacity)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	fmt.Printf("\nappends: %d, reserved: %d, final len/cap: %d/%d, reallocations: %d\n",
		n, reserve, v.Len(), v.Cap(), len(steps))
	return nil
}

func runSpectrum(freq, rate float64, size int) error {
	if freq <= 0 || rate <= 0 || size <= 0 {
		return fmt.Errorf("frequency, rate and size must be positive")
	}

	// Stream the signal into a growing accumulator, one sample at a
	// time, the way a capture loop would.
	acc := vec.New[float64]()
	for i := 0; i < size; i++ {
		if err := acc.Append(math.Sin(2 * math.Pi * freq * float64(i) / rate)); err != nil {
			return err
		}
	}

	// Hann-window the accumulated block in place.
	coeffs := make([]float64, acc.Len())
	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(coeffs)-1)))
	}
	vecmath.MulBlockInPlace(acc.Slice(), coeffs)

	fftSize := nextPowerOf2(acc.Len())
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return fmt.Errorf("failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, s := range acc.Slice() {
		padded[i] = complex(s, 0)
	}
	bins := make([]complex128, fftSize)
	if err := plan.Forward(bins, padded); err != nil {
		return fmt.Errorf("forward FFT failed: %w", err)
	}

	peakBin := 0
	peakMag := 0.0
	for i := 0; i < fftSize/2; i++ {
		if m := cmplx.Abs(bins[i]); m > peakMag {
			peakMag = m
			peakBin = i
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Samples\tFinal Cap\tFFT Size\tPeak Bin\tPeak Freq [Hz]\n")
	fmt.Fprintf(tw, "-------\t---------\t--------\t--------\t--------------\n")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.2f\n",
		acc.Len(), acc.Cap(), fftSize, peakBin, float64(peakBin)*rate/float64(fftSize))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
