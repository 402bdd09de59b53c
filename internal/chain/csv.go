package chain

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/option"
)

// LoadQuotesCSV reads quote rows with the header
// strike,price,delta,gamma,theta,vega,implied_volatility.
func LoadQuotesCSV(r io.Reader) ([]Quote, error) {
	var quotes []Quote
	if err := gocsv.Unmarshal(r, &quotes); err != nil {
		return nil, apperrors.NewDataError("quotes", "csv", "failed to parse", err)
	}
	if len(quotes) == 0 {
		return nil, apperrors.NewDataError("quotes", "csv", "no rows", apperrors.ErrDataNotFound)
	}
	return quotes, nil
}

// WriteQuotesCSV writes quotes in the format LoadQuotesCSV reads.
func WriteQuotesCSV(w io.Writer, quotes []Quote) error {
	return gocsv.Marshal(quotes, w)
}

// LoadSnapshotFiles builds a snapshot from a calls file and a puts file.
func LoadSnapshotFiles(expiration string, m option.Market, callsPath, putsPath string) (*Snapshot, error) {
	calls, err := loadQuotesFile(callsPath)
	if err != nil {
		return nil, err
	}
	puts, err := loadQuotesFile(putsPath)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(expiration, m, calls, puts)
}

func loadQuotesFile(path string) ([]Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataError("quotes", path, "failed to open", err)
	}
	defer f.Close()

	quotes, err := LoadQuotesCSV(f)
	if err != nil {
		return nil, apperrors.Wrap(err, path)
	}
	return quotes, nil
}
