package sanitize

// forbiddenElements are elements whose entire subtree is removed. These are
// the scriptable / active-content vectors: anything here can execute code,
// load external documents, or smuggle non-SVG content.
var forbiddenElements = map[string]struct{}{
	"script":           {},
	"iframe":           {},
	"object":           {},
	"embed":            {},
	"link":             {},
	"foreignobject":    {},
	"audio":            {},
	"video":            {},
	"animate":          {},
	"animatemotion":    {},
	"animatetransform": {},
	"set":              {},
	"handler":          {},
	"annotation-xml":   {},
	"math":             {},
	"template":         {},
	"noscript":         {},
	"noembed":          {},
	"noframes":         {},
	"xmp":              {},
	"plaintext":        {},
}

// allowedElements is the safe vector-graphics element profile, including the
// filter primitives. Elements not listed and not forbidden are unwrapped:
// the tag is dropped but its children are kept.
var allowedElements = map[string]struct{}{
	"svg":      {},
	"g":        {},
	"defs":     {},
	"symbol":   {},
	"use":      {},
	"switch":   {},
	"desc":     {},
	"title":    {},
	"metadata": {},
	"style":    {},
	"view":     {},

	"path":     {},
	"rect":     {},
	"circle":   {},
	"ellipse":  {},
	"line":     {},
	"polyline": {},
	"polygon":  {},
	"image":    {},

	"text":     {},
	"tspan":    {},
	"textpath": {},

	"marker":         {},
	"pattern":        {},
	"clippath":       {},
	"mask":           {},
	"lineargradient": {},
	"radialgradient": {},
	"stop":           {},

	"filter":              {},
	"feblend":             {},
	"fecolormatrix":       {},
	"fecomponenttransfer": {},
	"fecomposite":         {},
	"feconvolvematrix":    {},
	"fediffuselighting":   {},
	"fedisplacementmap":   {},
	"fedistantlight":      {},
	"fedropshadow":        {},
	"feflood":             {},
	"fefunca":             {},
	"fefuncb":             {},
	"fefuncg":             {},
	"fefuncr":             {},
	"fegaussianblur":      {},
	"feimage":             {},
	"femerge":             {},
	"femergenode":         {},
	"femorphology":        {},
	"feoffset":            {},
	"fepointlight":        {},
	"fespecularlighting":  {},
	"fespotlight":         {},
	"fetile":              {},
	"feturbulence":        {},
}

// allowedAttributes is the attribute allow-list, keyed by lowercased full
// attribute name (prefix included for namespaced attributes). Anything not
// listed is dropped; on* event handlers are rejected before this table is
// consulted.
var allowedAttributes = map[string]struct{}{
	"accent-height":               {},
	"accumulate":                  {},
	"alignment-baseline":          {},
	"ascent":                      {},
	"azimuth":                     {},
	"baseprofile":                 {},
	"basefrequency":               {},
	"baseline-shift":              {},
	"bias":                        {},
	"by":                          {},
	"class":                       {},
	"clip":                        {},
	"clip-path":                   {},
	"clip-rule":                   {},
	"clippathunits":               {},
	"color":                       {},
	"color-interpolation":         {},
	"color-interpolation-filters": {},
	"color-rendering":             {},
	"cx":                          {},
	"cy":                          {},
	"d":                           {},
	"dx":                          {},
	"dy":                          {},
	"diffuseconstant":             {},
	"direction":                   {},
	"display":                     {},
	"divisor":                     {},
	"edgemode":                    {},
	"elevation":                   {},
	"fill":                        {},
	"fill-opacity":                {},
	"fill-rule":                   {},
	"filter":                      {},
	"filterunits":                 {},
	"flood-color":                 {},
	"flood-opacity":               {},
	"font-family":                 {},
	"font-size":                   {},
	"font-size-adjust":            {},
	"font-stretch":                {},
	"font-style":                  {},
	"font-variant":                {},
	"font-weight":                 {},
	"fx":                          {},
	"fy":                          {},
	"gradientunits":               {},
	"gradienttransform":           {},
	"height":                      {},
	"href":                        {},
	"id":                          {},
	"image-rendering":             {},
	"in":                          {},
	"in2":                         {},
	"k1":                          {},
	"k2":                          {},
	"k3":                          {},
	"k4":                          {},
	"kernelmatrix":                {},
	"kernelunitlength":            {},
	"kerning":                     {},
	"lengthadjust":                {},
	"letter-spacing":              {},
	"lighting-color":              {},
	"marker-end":                  {},
	"marker-mid":                  {},
	"marker-start":                {},
	"markerheight":                {},
	"markerunits":                 {},
	"markerwidth":                 {},
	"mask":                        {},
	"maskcontentunits":            {},
	"maskunits":                   {},
	"method":                      {},
	"mode":                        {},
	"numoctaves":                  {},
	"offset":                      {},
	"opacity":                     {},
	"operator":                    {},
	"order":                       {},
	"orient":                      {},
	"overflow":                    {},
	"paint-order":                 {},
	"pathlength":                  {},
	"patterncontentunits":         {},
	"patterntransform":            {},
	"patternunits":                {},
	"points":                      {},
	"preservealpha":               {},
	"preserveaspectratio":         {},
	"primitiveunits":              {},
	"r":                           {},
	"radius":                      {},
	"refx":                        {},
	"refy":                        {},
	"result":                      {},
	"rotate":                      {},
	"rx":                          {},
	"ry":                          {},
	"scale":                       {},
	"seed":                        {},
	"shape-rendering":             {},
	"spacing":                     {},
	"specularconstant":            {},
	"specularexponent":            {},
	"spreadmethod":                {},
	"startoffset":                 {},
	"stddeviation":                {},
	"stitchtiles":                 {},
	"stop-color":                  {},
	"stop-opacity":                {},
	"stroke":                      {},
	"stroke-dasharray":            {},
	"stroke-dashoffset":           {},
	"stroke-linecap":              {},
	"stroke-linejoin":             {},
	"stroke-miterlimit":           {},
	"stroke-opacity":              {},
	"stroke-width":                {},
	"style":                       {},
	"surfacescale":                {},
	"systemlanguage":              {},
	"tabindex":                    {},
	"targetx":                     {},
	"targety":                     {},
	"text-anchor":                 {},
	"text-decoration":             {},
	"text-rendering":              {},
	"textlength":                  {},
	"transform":                   {},
	"type":                        {},
	"values":                      {},
	"vector-effect":               {},
	"version":                     {},
	"viewbox":                     {},
	"visibility":                  {},
	"width":                       {},
	"word-spacing":                {},
	"writing-mode":                {},
	"x":                           {},
	"x1":                          {},
	"x2":                          {},
	"xchannelselector":            {},
	"y":                           {},
	"y1":                          {},
	"y2":                          {},
	"ychannelselector":            {},
	"z":                           {},
	"zoomandpan":                  {},

	"xml:id":      {},
	"xml:lang":    {},
	"xml:space":   {},
	"xmlns":       {},
	"xmlns:xlink": {},
	"xlink:href":  {},
	"xlink:title": {},
}
