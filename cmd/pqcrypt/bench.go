package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquetcrypt/core/internal/constants"
	"github.com/parquetcrypt/core/pkg/crypto"
	"github.com/parquetcrypt/core/pkg/modaad"
)

func runBench(modules int, throughputTest bool, sizeStr, durationStr string, pageSize int) {
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║      Parquet Modular Encryption Benchmark                ║")
	fmt.Println("║      AES-128-GCM module seal/open                        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	if modules == 0 && !throughputTest {
		fmt.Println("No benchmarks specified. Use --modules or --throughput")
		fmt.Println("Run 'pqcrypt bench --help' for usage")
		os.Exit(1)
	}

	if modules > 0 {
		benchModules(modules, pageSize)
		fmt.Println()
	}

	if throughputTest {
		size := parseSize(sizeStr)
		duration := parseDuration(durationStr)
		benchThroughput(size, duration, pageSize)
	}
}

func benchModules(count, pageSize int) {
	fmt.Printf("Benchmarking Module Seal/Open (%d iterations, %d-byte pages)\n", count, pageSize)
	fmt.Println(strings.Repeat("─", 60))

	key := make([]byte, constants.AESKeySize)
	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to generate key: %v\n", err)
		os.Exit(1)
	}
	enc, err := crypto.NewBlockEncryptor(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create encryptor: %v\n", err)
		os.Exit(1)
	}
	dec, err := crypto.NewBlockDecryptor(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create decryptor: %v\n", err)
		os.Exit(1)
	}

	plaintext := make([]byte, pageSize)
	if _, err := rand.Read(plaintext); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to generate page data: %v\n", err)
		os.Exit(1)
	}
	fileAAD := []byte("bench-file-aad-0")

	sealDurations := make([]time.Duration, count)
	openDurations := make([]time.Duration, count)
	errors := 0

	startTime := time.Now()
	step := count / 10
	if step == 0 {
		step = 1
	}

	for i := 0; i < count; i++ {
		aad, err := modaad.Build(fileAAD, constants.ModuleTypeDataPage, 0, 0, i)
		if err != nil {
			errors++
			continue
		}

		sealStart := time.Now()
		frame, err := enc.Encrypt(plaintext, aad)
		sealDurations[i] = time.Since(sealStart)
		if err != nil {
			errors++
			continue
		}

		openStart := time.Now()
		_, err = dec.Decrypt(frame, aad)
		openDurations[i] = time.Since(openStart)
		if err != nil {
			errors++
			continue
		}

		if (i+1)%step == 0 || i == count-1 {
			fmt.Printf("Progress: %d/%d (%.0f%%)\r", i+1, count, float64(i+1)/float64(count)*100)
		}
	}
	fmt.Println()

	totalTime := time.Since(startTime)
	successCount := count - errors
	printModuleResults(count, successCount, errors, totalTime, sealDurations, openDurations, pageSize)
}

func printModuleResults(total, successful, failed int, totalTime time.Duration, sealDurations, openDurations []time.Duration, pageSize int) {
	if failed == total {
		fmt.Fprintf(os.Stderr, "All module round trips failed\n")
		os.Exit(1)
	}

	sealAvg := averageDuration(sealDurations)
	openAvg := averageDuration(openDurations)

	fmt.Println("\nResults:")
	fmt.Printf("  Total modules: %d\n", total)
	fmt.Printf("  Successful: %d\n", successful)
	fmt.Printf("  Failed: %d\n", failed)
	fmt.Printf("  Total time: %v\n", totalTime)
	fmt.Println()
	fmt.Println("Seal/Open Performance:")
	fmt.Printf("  Average seal: %v\n", sealAvg)
	fmt.Printf("  Average open: %v\n", openAvg)
	fmt.Printf("  Throughput: %.2f modules/sec\n", float64(successful)/totalTime.Seconds())
	mbps := float64(successful) * float64(pageSize) / totalTime.Seconds() / 1024 / 1024
	fmt.Printf("  Data throughput: %.2f MB/s\n", mbps)
	fmt.Println()

	printModuleRating(sealAvg + openAvg)
}

func averageDuration(durations []time.Duration) time.Duration {
	var sum time.Duration
	var n int
	for _, d := range durations {
		if d == 0 {
			continue
		}
		sum += d
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / time.Duration(n)
}

func printModuleRating(roundTrip time.Duration) {
	if roundTrip < 10*time.Microsecond {
		fmt.Println("✓ Performance: Excellent (< 10us round trip)")
	} else if roundTrip < 50*time.Microsecond {
		fmt.Println("✓ Performance: Good (< 50us round trip)")
	} else if roundTrip < 200*time.Microsecond {
		fmt.Println("⚠ Performance: Acceptable (< 200us round trip)")
	} else {
		fmt.Println("⚠ Performance: Slow (> 200us round trip)")
	}
}

func benchThroughput(totalBytes int64, duration time.Duration, pageSize int) {
	fmt.Printf("Benchmarking Sustained Throughput\n")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("Target: %s over %v, %d-byte pages\n\n", formatSize(totalBytes), duration, pageSize)

	key := make([]byte, constants.AESKeySize)
	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to generate key: %v\n", err)
		os.Exit(1)
	}
	enc, err := crypto.NewBlockEncryptor(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create encryptor: %v\n", err)
		os.Exit(1)
	}
	dec, err := crypto.NewBlockDecryptor(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create decryptor: %v\n", err)
		os.Exit(1)
	}

	plaintext := make([]byte, pageSize)
	if _, err := rand.Read(plaintext); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to generate page data: %v\n", err)
		os.Exit(1)
	}
	fileAAD := []byte("bench-file-aad-0")

	var sealed, opened int64
	var sealDuration, openDuration time.Duration

	maxPages := totalBytes/int64(pageSize) + 1
	frames := make([][]byte, 0, maxPages)
	aads := make([][]byte, 0, maxPages)

	sealStart := time.Now()
	lastProgress := time.Now()
	page := 0
	for sealed < totalBytes && time.Since(sealStart) < duration {
		aad, aadErr := modaad.Build(fileAAD, constants.ModuleTypeDataPage, 0, 0, page)
		if aadErr != nil {
			fmt.Fprintf(os.Stderr, "AAD error: %v\n", aadErr)
			break
		}
		frame, err := enc.Encrypt(plaintext, aad)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Encrypt error: %v\n", err)
			break
		}
		frames = append(frames, frame)
		aads = append(aads, aad)
		sealed += int64(len(plaintext))
		page++

		if time.Since(lastProgress) >= time.Second {
			elapsed := time.Since(sealStart)
			mbps := float64(sealed) / elapsed.Seconds() / 1024 / 1024
			fmt.Printf("Progress: %s / %s (%.1f MB/s)\r", formatSize(sealed), formatSize(totalBytes), mbps)
			lastProgress = time.Now()
		}
	}
	sealDuration = time.Since(sealStart)

	openStart := time.Now()
	for i, frame := range frames {
		if _, err := dec.Decrypt(frame, aads[i]); err == nil {
			opened += int64(len(plaintext))
		}
	}
	openDuration = time.Since(openStart)

	fmt.Println()
	printThroughputResults(sealed, opened, sealDuration, openDuration)
}

func printThroughputResults(sealed, opened int64, sealDuration, openDuration time.Duration) {
	fmt.Println("\nResults:")
	fmt.Printf("  Data sealed: %s\n", formatSize(sealed))
	fmt.Printf("  Data opened: %s\n", formatSize(opened))
	fmt.Printf("  Seal duration: %v\n", sealDuration)
	fmt.Printf("  Open duration: %v\n", openDuration)
	fmt.Println()

	var sealMBps, openMBps float64
	if sealDuration > 0 {
		sealMBps = float64(sealed) / sealDuration.Seconds() / 1024 / 1024
		fmt.Printf("Seal Throughput: %.2f MB/s (%.2f Mbps)\n", sealMBps, sealMBps*8)
	}
	if openDuration > 0 {
		openMBps = float64(opened) / openDuration.Seconds() / 1024 / 1024
		fmt.Printf("Open Throughput: %.2f MB/s (%.2f Mbps)\n", openMBps, openMBps*8)
	}

	printThroughputRating((sealMBps + openMBps) / 2)
}

func printThroughputRating(avgMBps float64) {
	fmt.Println()
	if avgMBps > 500 {
		fmt.Println("✓ Performance: Excellent (> 500 MB/s)")
	} else if avgMBps > 200 {
		fmt.Println("✓ Performance: Good (> 200 MB/s)")
	} else if avgMBps > 50 {
		fmt.Println("✓ Performance: Acceptable (> 50 MB/s)")
	} else {
		fmt.Println("⚠ Performance: May need optimization (< 50 MB/s)")
	}
}

func parseSize(s string) int64 {
	var value int64
	var unit string
	_, _ = fmt.Sscanf(s, "%d%s", &value, &unit)

	switch unit {
	case "KB", "kb", "K", "k":
		return value * 1024
	case "MB", "mb", "M", "m":
		return value * 1024 * 1024
	case "GB", "gb", "G", "g":
		return value * 1024 * 1024 * 1024
	default:
		return value
	}
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid duration: %s\n", s)
		os.Exit(1)
	}
	return d
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	units := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}
