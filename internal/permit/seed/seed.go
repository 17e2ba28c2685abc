// Package seed generates the deterministic mock dataset loaded at
// startup when SIPEKA_SEED is enabled. The portal has no persistence
// layer, so seeding is how the dashboard and archive get historical
// records to work against.
package seed

import (
	"fmt"
	"math/rand"

	"sipeka/internal/permit/models"
)

var (
	firstNames = []string{"Budi", "Siti", "Agus", "Lalu", "Baiq", "Dewi", "Rian", "Putri", "Hendra", "Eka"}
	lastNames  = []string{"Pratama", "Sari", "Wahyudi", "Hidayat", "Saputra", "Lestari", "Kusuma", "Ayu"}
	campuses   = []string{
		"Universitas Mataram",
		"UIN Mataram",
		"Universitas Hamzanwadi",
		"Universitas Teknologi Sumbawa",
		"Universitas Muhammadiyah Mataram",
	}
)

// Years is the historical window the mock dataset spans.
var Years = []int{2023, 2024, 2025, 2026}

// Generate builds the mock permit dataset from a fixed seed so restarts
// produce the same archive. Records before 2025 are all issued; later
// years mix issued and pending, mirroring a live verification queue.
func Generate(seedValue int64) []*models.Permit {
	rng := rand.New(rand.NewSource(seedValue))

	var permits []*models.Permit
	counter := 1
	for _, year := range Years {
		count := rng.Intn(200) + 100
		if year == Years[len(Years)-1] {
			count = 150
		}
		for i := 0; i < count; i++ {
			first := firstNames[rng.Intn(len(firstNames))]
			last := lastNames[rng.Intn(len(lastNames))]
			category := models.Categories[rng.Intn(len(models.Categories))]

			status := models.StatusApproved
			if year >= 2025 && rng.Float64() <= 0.3 {
				status = models.StatusPending
			}

			permits = append(permits, &models.Permit{
				ID:               fmt.Sprintf("PERMIT-%d-%d", year, counter),
				ApplicantName:    first + " " + last,
				IDNumber:         fmt.Sprintf("520%013d", rng.Int63n(900_000_000_0000)),
				Email:            fmt.Sprintf("%s.%s@example.com", lower(first), lower(last)),
				Phone:            fmt.Sprintf("081%09d", rng.Intn(900_000_000)+100_000_000),
				University:       campuses[rng.Intn(len(campuses))],
				ResearchTitle:    "Penelitian Strategis Bidang " + category + " di NTB",
				ResearchLocation: models.Regencies[rng.Intn(len(models.Regencies))],
				Duration:         "3 Bulan",
				Category:         category,
				SubmissionDate:   fmt.Sprintf("%d-%02d-%02d", year, rng.Intn(12)+1, rng.Intn(28)+1),
				Status:           status,
				Year:             year,
				Documents: models.Documents{
					KTP:            "mock-ktp.jpg",
					Proposal:       "mock-proposal.pdf",
					SuratPengantar: "mock-surat.pdf",
				},
			})
			counter++
		}
	}
	return permits
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
