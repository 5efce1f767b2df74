// Package domain models MeteoSwiss IDAweb order exports.
//
// # Data Source
//
// An IDAweb order is delivered as a pair of text files per order number:
// a legend (order_<n>_legend.txt) describing the stations and parameters,
// and a data file (order_<n>_data.txt) with the observations.
//
// # Legend Format
//
// The legend is ISO-8859-1 text. The station section starts at a header line
// whose first tokens are "stn" and "Name":
//
//	stn       Name                     Parameter  Data source       Longitude/Latitude  Coordinates [km]  Elevation [m]
//	ABO       Adelboden                rre150d0   MeteoSwiss        7°34'/46°30'        2609350/1148939   1327
//
// Columns are separated by runs of spaces, and names and data sources
// contain spaces too, so a line is split around its parameter token
// (rka150d0 or rre150d0) and its three trailing location fields. See
// [ParseStationLine].
//
// Coordinates:
//
//	Longitude/Latitude: "<deg>°<min>'/<deg>°<min>'", e.g. 8°54'/47°30'.
//	Only positive degrees occur for Swiss stations; there is no hemisphere sign.
//	Converted to decimal degrees as deg + min/60 by [ParseDegreesMinutes].
//	Coordinates [km]: "<x>/<y>" in the Swiss grid. Kept as text.
//
// # Data Format
//
// The data file is ";"-delimited with a two line preamble followed by the
// header row:
//
//	stn;time;rka150d0;rre150d0;rsd700d0
//	ABO;20230101;0.2;0.3;-
//
// Rows whose time is not exactly eight characters (YYYYMMDD) are not
// observations and are dropped. The 3rd to 5th columns are coerced to numbers;
// placeholders such as "-" become missing values.
package domain
