package commentary

import "github.com/fortuna/cricbase/internal/ingest/rawjson"

func str(s string) rawjson.String {
	return rawjson.String{Value: s, Valid: true}
}

func rawBool(b bool) jsonTrue {
	return jsonTrue(b)
}
