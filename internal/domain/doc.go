// Package domain models the canonical weather data shared by every provider
// adapter and the query engine.
//
// # Data Conventions
//
// Timestamps:
//
//	Every timestamp that crosses a component boundary is epoch milliseconds
//	encoded as a decimal string, e.g. "1604779200000". The string encoding is
//	part of the wire contract with API consumers and must be preserved exactly;
//	see [ToTimestamp] and [ParseTimestamp].
//
// Observation types:
//
//	Each weather record and map layer is classified by its temporal relation
//	to "now": historical, recent, or forecast. Within any time-ordered
//	sequence exactly one entry is "recent" after [SmoothObservations] has run.
//
// Temperatures:
//
//	Stored and returned in degrees Celsius, rounded to two decimals. Providers
//	reporting Kelvin (DWD MOSMIX, DWD current observations) are converted at
//	ingestion via [KelvinToCelsius].
//
// Icon grammar:
//
//	Weather icons are derived tokens of the form
//
//	  {base}_{modifier}_{day|night}  or  {base}_{day|night}
//
//	base: FG (fog), clear, partCloudy, prevCloudy, overcast, by cloud cover
//	banded at 1/8, 4/8 and 7/8. modifier: an intensity prefix (light, mod,
//	heavy, by precipitation rate banded at 2.5 and 10 mm/h) followed by a
//	precipitation type (RA rain, SN snow, SHGR hail shower, TSRA rain
//	thunderstorm). The day/night suffix follows solar sunrise/sunset at the
//	station coordinate; polar dates with no sunrise or no sunset degrade
//	deterministically to day or night. See [Icon].
//
// Conditions:
//
//	Discrete provider condition codes (WMO ww table) are normalized to one of
//	dry, fog, rain, sleet, snow, hail, thunderstorm by [ConditionFromCode].
//
// Countries and languages:
//
//	Supported countries form a closed set (si, de, global); there is no open
//	registration. Alert texts are localized per language with English as the
//	mandatory fallback.
package domain
