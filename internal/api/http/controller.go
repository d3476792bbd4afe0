package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/filter"
)

// @title      		txmon
// @version         0.0.1
// @description     Project records transactions sent to monitored EVM accounts.

// @license.name  	Apache 2.0
// @license.url   	http://www.apache.org/licenses/LICENSE-2.0.html

// @host      		localhost:5000
// @BasePath  		/api
// @schemes 		http

var basePath = "/api/v1"

const maxLimit = 10000

var _ QueryController = (*Controller)(nil)

type Controller struct {
	svc app.QueryService
}

func NewController(svc app.QueryService) *Controller {
	return &Controller{svc: svc}
}

func paramErr(ctx *gin.Context, param string, err error) {
	ctx.IndentedJSON(http.StatusBadRequest, gin.H{"param": param, "error": err.Error()})
}

func internalErr(ctx *gin.Context, err error) {
	log.Error().Str("path", ctx.FullPath()).Err(err).Msg("internal server error")
	ctx.IndentedJSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
}

func queryInt(ctx *gin.Context, key string) (int, bool, error) {
	v, ok := ctx.GetQuery(key)
	if !ok || v == "" {
		return 0, false, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, true, err
	}
	if i < 0 {
		return 0, true, errors.Wrapf(core.ErrInvalidArg, "negative %s", key)
	}
	return i, true, nil
}

// getOffsetLimit reports paged = false if neither offset nor limit is passed.
func getOffsetLimit(ctx *gin.Context) (offset, limit int, paged bool, err error) {
	offset, withOffset, err := queryInt(ctx, "offset")
	if err != nil {
		return 0, 0, false, err
	}
	limit, withLimit, err := queryInt(ctx, "limit")
	if err != nil {
		return 0, 0, false, err
	}
	if limit > maxLimit {
		return 0, 0, false, errors.Wrapf(core.ErrInvalidArg, "limit is too big (max %d)", maxLimit)
	}
	return offset, limit, withOffset || withLimit, nil
}

// GetTransactions godoc
//	@Summary		recorded transactions
//	@Description	Returns all recorded transactions sent to monitored accounts, newest first
//	@Tags			transaction
//	@Accept			json
//	@Produce		json
//  @Param   		offset	     		query   int 	false	"offset"
//  @Param   		limit	     		query   int 	false	"limit, all records if omitted"
//	@Success		200		{array}		core.TransactionEvent
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/transactions [get]
func (c *Controller) GetTransactions(ctx *gin.Context) {
	offset, limit, paged, err := getOffsetLimit(ctx)
	if err != nil {
		paramErr(ctx, "offset_limit", err)
		return
	}

	var ret []*core.TransactionEvent
	if paged {
		ret, err = c.svc.GetEvents(ctx, offset, limit)
	} else {
		ret, err = c.svc.ListAll(ctx)
	}
	if err != nil {
		internalErr(ctx, err)
		return
	}
	ctx.IndentedJSON(http.StatusOK, ret)
}

// GetEvents godoc
//	@Summary		filtered transactions
//	@Description	Returns filtered recorded transactions with total count
//	@Tags			transaction
//	@Accept			json
//	@Produce		json
//  @Param   		to		     		query   string 	false   "monitored account"
//  @Param   		from	     		query   string 	false   "sender address"
//  @Param   		function     		query   string 	false   "function identifier"
//  @Param   		order	     		query   string 	false	"order by observed time"	Enums(ASC, DESC) default(DESC)
//  @Param   		offset	     		query   int 	false	"offset"
//  @Param   		limit	     		query   int 	false	"limit"	default(10) maximum(10000)
//	@Success		200		{object}	filter.EventsRes
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/v1/events [get]
func (c *Controller) GetEvents(ctx *gin.Context) {
	var req filter.EventsReq

	if err := ctx.ShouldBindQuery(&req); err != nil {
		paramErr(ctx, "events_filter", err)
		return
	}
	if req.Offset < 0 || req.Limit < 0 || req.Limit > maxLimit {
		paramErr(ctx, "offset_limit", errors.Wrapf(core.ErrInvalidArg, "offset %d, limit %d", req.Offset, req.Limit))
		return
	}

	ret, err := c.svc.FilterEvents(ctx, &req)
	if errors.Is(err, core.ErrInvalidArg) {
		paramErr(ctx, "events_filter", err)
		return
	}
	if err != nil {
		internalErr(ctx, err)
		return
	}
	ctx.IndentedJSON(http.StatusOK, ret)
}
