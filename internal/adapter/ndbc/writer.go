package ndbc

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Header is the two-line column/unit header NDBC puts at the top of
// historical stdmet files.
const Header = "#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS  TIDE\n" +
	"#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC  nmi    ft"

// WriteFile writes lines, newline-terminated, as a gzip-compressed file in
// the layout Reader expects. The header is written first when non-empty.
func WriteFile(path, header string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	zw := gzip.NewWriter(f)
	var b strings.Builder
	if header != "" {
		b.WriteString(header)
		b.WriteByte('\n')
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if _, err := zw.Write([]byte(b.String())); err != nil {
		f.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	return f.Close()
}
