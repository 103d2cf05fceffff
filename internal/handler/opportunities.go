package handler

import (
	"net/http"
	"strconv"
	"strings"

	"yield-radar/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetOpportunities godoc
// @Summary      Get classified yield opportunities
// @Description  Returns the latest scan bucketized into focus, long-term, short-term, and layer-2 groups. Threshold query parameters trigger a fresh classification instead of the cached scan.
// @Tags         opportunities
// @Produce      json
// @Param        min_apy  query  number  false  "Minimum APY percent"
// @Param        min_tvl  query  number  false  "Minimum TVL in USD"
// @Param        chains   query  string  false  "Comma-separated chain allow-list"
// @Param        sort     query  string  false  "Sort mode: apy, apr, tvl, or ror"
// @Success      200  {object}  domain.ScanResult
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/opportunities [get]
func (h *Handler) GetOpportunities(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-opportunities")
	defer span.End()

	params, overridden, err := scanParamsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.Bool("params.overridden", overridden))

	if !overridden {
		result, err := h.scanService.GetScan(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := h.scanService.ScanWithParams(ctx, params)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTopPicks godoc
// @Summary      Get top opportunities by risk-adjusted return
// @Description  Returns the highest-ROR opportunities across all buckets
// @Tags         opportunities
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/opportunities/top [get]
func (h *Handler) GetTopPicks(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-top-picks")
	defer span.End()

	picks, err := h.scanService.TopPicks(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_picks": picks})
}

// scanParamsFromQuery builds scan thresholds from query parameters on top of
// the defaults. overridden reports whether any parameter was supplied, which
// decides cached vs fresh classification.
func scanParamsFromQuery(c *gin.Context) (domain.ScanParams, bool, error) {
	params := domain.DefaultScanParams()
	overridden := false

	if v := c.Query("min_apy"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return params, false, &queryError{"min_apy", v}
		}
		params.MinAPY = n
		overridden = true
	}
	if v := c.Query("min_tvl"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return params, false, &queryError{"min_tvl", v}
		}
		params.MinTVLUSD = n
		overridden = true
	}
	if v := c.Query("chains"); v != "" {
		var chains []string
		for _, chain := range strings.Split(v, ",") {
			chain = strings.ToLower(strings.TrimSpace(chain))
			if chain == "" {
				continue
			}
			if !domain.SupportedChains[chain] {
				return params, false, &queryError{"chains", chain}
			}
			chains = append(chains, chain)
		}
		params.AllowedChains = chains
		overridden = true
	}
	if v := c.Query("sort"); v != "" {
		mode := domain.SortMode(strings.ToLower(strings.TrimSpace(v)))
		if !mode.IsValid() {
			return params, false, &queryError{"sort", v}
		}
		params.SortMode = mode
		overridden = true
	}

	return params, overridden, nil
}

type queryError struct {
	param string
	value string
}

func (e *queryError) Error() string {
	return "invalid " + e.param + ": " + e.value
}
