// Package domain models NOAA National Data Buoy Center (NDBC) standard
// meteorological observations and the wave-height series derived from them.
//
// # Data Source
//
// Historical buoy files come from https://www.ndbc.noaa.gov/ as gzip-compressed
// text, one file per station and year, e.g. "51001h2023.txt.gz". The first five
// characters of the filename are the station id.
//
// # File Layout
//
// Each file starts with a header naming the columns:
//
//	#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS  TIDE
//	#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC  nmi    ft
//	2023 01 01 00 00  50  6.0  7.4  2.43 12.50  7.98 316 1015.8  24.3  25.0  19.3 99.0 99.00
//
// Fields are separated by runs of spaces, not fixed widths. Only the first line
// is treated as a header; the units line that follows it fails timestamp
// derivation and is dropped with the other malformed records.
//
// Missing measurements:
//
//	NDBC fills unmeasured fields with sentinels ("MM", 99.00, 999.0, 9999.0).
//	A token is missing when it equals a configured sentinel string or, when
//	numeric, equals a sentinel in value ("999" matches "999.0").
//	Missing fields are nil in [Observation], never the sentinel number.
//
// Timestamps:
//
//	YYYY, MM, DD and hh are combined into a UTC hour. Minutes are ignored.
//	Combinations that are not a calendar hour (month 13, 31 June, hour 24)
//	leave [Observation.Time] zero and the record is dropped.
//
// # Aggregation
//
// Valid observations are averaged per (region, calendar day). The daily table
// is the only thing persisted; weekly and monthly views are re-aggregated from
// it on demand (see [Resample]). Weeks end on Sunday and months on their last
// day; each bucket is labelled with its end date.
package domain
