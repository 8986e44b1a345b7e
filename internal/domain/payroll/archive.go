package payroll

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Sealer encrypts archived payslips. A disabled sealer stores plain PDFs.
type Sealer interface {
	Enabled() bool
	Seal(plain []byte) ([]byte, error)
}

// Archiver keeps a copy of every payslip that was mailed out, grouped by
// year under Dir.
type Archiver struct {
	Dir    string
	Sealer Sealer
}

// Store writes the payslip and returns its path.
func (a *Archiver) Store(rec Record, emp EmployeeSnapshot, pdf []byte) (string, error) {
	name := PayslipFilename(rec, emp)
	data := pdf
	if a.Sealer != nil && a.Sealer.Enabled() {
		sealed, err := a.Sealer.Seal(pdf)
		if err != nil {
			return "", fmt.Errorf("seal payslip: %w", err)
		}
		data = sealed
		name += ".enc"
	}
	dir := filepath.Join(a.Dir, strconv.Itoa(rec.Year))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
